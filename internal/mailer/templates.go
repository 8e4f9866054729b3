package mailer

import (
	"fmt"
	"html"
	"time"
)

// JudgeInvite builds the token-delivery mail carrying a judging link. The
// same builder serves both the initial invite and a resend; the link is
// whatever capability is currently live.
func JudgeInvite(from, to, judgeName, hackathonName, publicBaseURL, tokenValue string, expiresAt time.Time) Message {
	link := fmt.Sprintf("%s/judge/%s/info", publicBaseURL, tokenValue)
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>You have been invited to judge <strong>%s</strong>.</p>
<p><a href="%s">Open your judging dashboard</a></p>
<p>This link is personal to you and valid until %s. If it stops working, ask the organizer to send you a new one.</p>`,
		html.EscapeString(judgeName),
		html.EscapeString(hackathonName),
		link,
		expiresAt.Format("January 2, 2006"))

	return Message{
		From:    from,
		To:      to,
		Subject: fmt.Sprintf("Your judging link for %s", hackathonName),
		HTML:    body,
	}
}

// ScoreFeedback builds the best-effort mail sent to a submission's
// contact after a judge records a score.
func ScoreFeedback(from, to, teamName, projectName string, score float64, notes string) Message {
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>A judge has reviewed <strong>%s</strong> and gave it a score of %.1f.</p>`,
		html.EscapeString(teamName),
		html.EscapeString(projectName),
		score)
	if notes != "" {
		body += fmt.Sprintf("<p>Feedback: %s</p>", html.EscapeString(notes))
	}

	return Message{
		From:    from,
		To:      to,
		Subject: fmt.Sprintf("New feedback for %s", projectName),
		HTML:    body,
	}
}
