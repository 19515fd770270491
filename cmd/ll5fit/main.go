// Command ll5fit fits five-parameter log-logistic curves to CSV datasets.
//
// Usage:
//
//	ll5fit fit doses.csv --fix d=10
//	ll5fit fit doses.csv.zst --config fit.yaml --format json --output report.json
//	ll5fit curve --params 4.59,-0.017,10,7.6,5.09 --from 0 --to 10 --points 50
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ll5fit:", err)
		os.Exit(1)
	}
}
