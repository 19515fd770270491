package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/ll5fit"
	"github.com/arloliu/ll5fit/ll5"
)

type curveFlags struct {
	params []float64
	report string
	from   float64
	to     float64
	points int
	output string
}

func newCurveCmd() *cobra.Command {
	var flags curveFlags

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Evaluate a fitted curve on an evenly spaced grid and print x,y CSV",
		Example: `  ll5fit curve --params 4.59,-0.017,10,7.6,5.09 --from 0 --to 10 --points 50
  ll5fit curve --report report.json --to 20 --output curve.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCurve(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.Float64SliceVar(&flags.params, "params", nil, "Parameters b,c,d,e,f")
	f.StringVar(&flags.report, "report", "", "Read parameters from a report written by 'fit --output'")
	f.Float64Var(&flags.from, "from", 0, "First dose")
	f.Float64Var(&flags.to, "to", 10, "Last dose")
	f.IntVar(&flags.points, "points", 101, "Number of grid points")
	f.StringVarP(&flags.output, "output", "o", "", "Write the CSV to this file (compressed by suffix)")
	cmd.MarkFlagsMutuallyExclusive("params", "report")
	cmd.MarkFlagsOneRequired("params", "report")

	return cmd
}

func curveParams(flags curveFlags) (ll5.Params, error) {
	if flags.report != "" {
		r, err := ll5fit.ReadReport(flags.report)
		if err != nil {
			return ll5.Params{}, err
		}

		var p ll5.Params
		for i := 0; i < ll5.NumParams; i++ {
			v, ok := r.Params[ll5.ParamName(i)]
			if !ok {
				return ll5.Params{}, fmt.Errorf("report %s has no value for %s", flags.report, ll5.ParamName(i))
			}
			p.Set(i, v)
		}

		return p, nil
	}

	if len(flags.params) != ll5.NumParams {
		return ll5.Params{}, fmt.Errorf("--params needs %d values (b,c,d,e,f), got %d", ll5.NumParams, len(flags.params))
	}

	return ll5.ParamsFromArray([ll5.NumParams]float64(flags.params)), nil
}

func runCurve(cmd *cobra.Command, flags curveFlags) error {
	p, err := curveParams(flags)
	if err != nil {
		return err
	}

	ds, err := ll5fit.Curve(p, flags.from, flags.to, flags.points)
	if err != nil {
		return err
	}

	if flags.output != "" {
		return ds.Save(flags.output)
	}

	return ds.WriteCSV(cmd.OutOrStdout())
}
