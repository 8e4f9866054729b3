// Package main implements a standalone mock mail provider for local
// development and end-to-end testing.
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jurylink/jurylink/internal/testutil/mockmail"
)

func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	return port
}

func main() {
	port := getPort()
	server := mockmail.New(os.Getenv("MOCKMAIL_API_KEY"))

	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: server.Handler(),
	}

	done := make(chan bool)
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down mockmail server...")
		//nolint:errcheck
		httpServer.Close()
		close(done)
	}()

	log.Printf("mockmail listening on :%s", port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}

	<-done
	log.Println("mockmail stopped")
}
