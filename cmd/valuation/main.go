// Command valuation runs the full valuation suite over a scenario file and
// prints a per-method summary table.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"corporate_valuation/pkg/core/scenario"
	"corporate_valuation/pkg/core/valuation"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a scenario file (.yaml, .yml or .hjson)")
	flag.Parse()

	godotenv.Load()
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: valuation -scenario <file>")
		os.Exit(2)
	}

	runID := uuid.NewString()
	log := logrus.WithField("run_id", runID)

	scn, err := scenario.Load(*scenarioPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load scenario")
	}
	log.WithField("scenario", scn.Name).Info("scenario loaded")

	dcfIn, err := scn.DCFInputs()
	if err != nil {
		log.WithError(err).Fatal("invalid dcf configuration")
	}

	summaryIn := valuation.SummaryInputs{DCF: dcfIn}
	if scn.CCA != nil {
		ccaIn, err := scn.CCAInputs()
		if err != nil {
			log.WithError(err).Fatal("invalid cca configuration")
		}
		summaryIn.CCA = &ccaIn
	}
	if scn.LBO != nil {
		lboIn, err := scn.LBOInputs()
		if err != nil {
			log.WithError(err).Fatal("invalid lbo configuration")
		}
		summaryIn.LBO = &lboIn
	}

	items, err := valuation.RunAllValuations(summaryIn)
	if err != nil {
		log.WithError(err).Fatal("valuation failed")
	}

	fmt.Printf("Valuation summary: %s (%s)\n\n", scn.Name, scn.Symbol)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Method\tValue / Share")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%.2f\n", item.Method, item.ValuePerShare)
	}
	tw.Flush()

	if scn.Sensitivity != nil {
		table, err := valuation.SensitivityAnalysis(dcfIn, scn.Sensitivity.RiskFreeRange, scn.Sensitivity.GrowthRange, scn.Sensitivity.Steps)
		if err != nil {
			log.WithError(err).Fatal("sensitivity analysis failed")
		}
		printSensitivity(table)
	}

	if scn.MonteCarlo != nil {
		cfg, err := scn.MonteCarloConfig()
		if err != nil {
			log.WithError(err).Fatal("invalid monte carlo configuration")
		}
		res, err := valuation.MonteCarloSimulation(dcfIn, cfg)
		if err != nil {
			log.WithError(err).Fatal("monte carlo simulation failed")
		}
		fmt.Printf("\nMonte Carlo (%d/%d trials): mean %.2f  median %.2f  std %.2f  p10 %.2f  p90 %.2f\n",
			res.Successful, res.Requested, res.Mean, res.Median, res.StdDev, res.P10, res.P90)
	}
}

func printSensitivity(table *valuation.SensitivityTable) {
	fmt.Println("\nSensitivity: value per share (rows: risk-free rate, columns: terminal growth)")
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "rf \\ g")
	for _, label := range table.GrowthLabels {
		fmt.Fprintf(tw, "\t%s", label)
	}
	fmt.Fprintln(tw)

	for i, rfLabel := range table.RiskFreeLabels {
		fmt.Fprint(tw, rfLabel)
		for _, v := range table.Values[i] {
			if math.IsNaN(v) {
				fmt.Fprint(tw, "\tn/a")
			} else {
				fmt.Fprintf(tw, "\t%.2f", v)
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}
