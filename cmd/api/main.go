package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"corporate_valuation/pkg/api/valuation"
)

func main() {
	godotenv.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	http.HandleFunc("/api/valuation/dcf", valuation.HandleDCF)
	http.HandleFunc("/api/valuation/cca", valuation.HandleCCA)
	http.HandleFunc("/api/valuation/sensitivity", valuation.HandleSensitivity)
	http.HandleFunc("/api/valuation/montecarlo", valuation.HandleMonteCarlo)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	logrus.WithField("addr", addr).Info("valuation API starting")
	if err := http.ListenAndServe(addr, nil); err != nil {
		logrus.WithError(err).Fatal("server failed to start")
	}
}
