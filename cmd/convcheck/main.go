// Conversion self-check tool: exercises host/storage round trips for
// every type class against an in-memory type registry.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-netcdf/netcdf"
)

type result struct {
	Name   string `json:"name"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
	OK     bool   `json:"ok"`
}

type check struct {
	name string
	run  func(c *netcdf.Converter, reg *netcdf.Registry) (string, error)
}

var checks = []check{
	{"numeric round trip", checkNumeric},
	{"packed read", checkPacked},
	{"char round trip", checkChar},
	{"enum round trip", checkEnum},
	{"vlen round trip", checkVlen},
	{"compound round trip", checkCompound},
}

func main() {
	var asJSON bool
	var verbose bool

	root := &cobra.Command{
		Use:          "convcheck",
		Short:        "Run host/storage conversion self-checks",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zap.NewNop()
			if verbose {
				var err error
				if log, err = zap.NewDevelopment(); err != nil {
					return err
				}
				defer log.Sync()
			}
			return runChecks(cmd, log, asJSON)
		},
	}
	root.Flags().BoolVar(&asJSON, "json", false, "emit results as JSON")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each check as it runs")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChecks(cmd *cobra.Command, log *zap.Logger, asJSON bool) error {
	reg := netcdf.NewRegistry()
	c := netcdf.NewConverter(reg)

	results := make([]result, 0, len(checks))
	failed := 0
	for _, chk := range checks {
		log.Info("running", zap.String("check", chk.name))
		detail, err := chk.run(c, reg)
		r := result{Name: chk.name, Detail: detail, OK: err == nil}
		if err != nil {
			r.Error = err.Error()
			failed++
			log.Error("check failed", zap.String("check", chk.name), zap.Error(err))
		}
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			mark := "ok  "
			if !r.OK {
				mark = "FAIL"
			}
			fmt.Fprintf(out, "%s %s", mark, r.Name)
			if r.Detail != "" {
				fmt.Fprintf(out, " (%s)", r.Detail)
			}
			if r.Error != "" {
				fmt.Fprintf(out, ": %s", r.Error)
			}
			fmt.Fprintln(out)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	return nil
}

func checkNumeric(c *netcdf.Converter, _ *netcdf.Registry) (string, error) {
	want := []float64{-1.5, 0, 255, math.MaxInt32}
	enc, err := c.ToStorage(&netcdf.Doubles{Data: want}, netcdf.TypeDouble, netcdf.ShapeVector, []uint64{4})
	if err != nil {
		return "", err
	}
	b, err := c.ReadInit(netcdf.TypeDouble, netcdf.ShapeVector, []uint64{4}, enc.Bytes)
	if err != nil {
		return "", err
	}
	val, err := c.Populate(b)
	if err != nil {
		return "", err
	}
	got := val.(*netcdf.Doubles).Data
	for i := range want {
		if got[i] != want[i] {
			return "", fmt.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
	return fmt.Sprintf("%d doubles, %s buffer", len(want), enc.Owner), nil
}

func checkPacked(c *netcdf.Converter, _ *netcdf.Registry) (string, error) {
	enc, err := c.ToStorage(&netcdf.Doubles{Data: []float64{12.5}}, netcdf.TypeShort,
		netcdf.ShapeVector, []uint64{1}, netcdf.WithScale(0.5), netcdf.WithOffset(10))
	if err != nil {
		return "", err
	}
	b, err := c.ReadInit(netcdf.TypeShort, netcdf.ShapeVector, []uint64{1}, enc.Bytes,
		netcdf.WithScale(0.5), netcdf.WithOffset(10))
	if err != nil {
		return "", err
	}
	val, err := c.Populate(b)
	if err != nil {
		return "", err
	}
	if got := val.(*netcdf.Doubles).Data[0]; got != 12.5 {
		return "", fmt.Errorf("got %v, want 12.5", got)
	}
	return "scale 0.5 offset 10", nil
}

func checkChar(c *netcdf.Converter, _ *netcdf.Registry) (string, error) {
	enc, err := c.ToStorage(&netcdf.Strings{Data: []string{"north", "south"}}, netcdf.TypeChar, 2, []uint64{2, 8})
	if err != nil {
		return "", err
	}
	b, err := c.ReadInit(netcdf.TypeChar, 2, []uint64{2, 8}, enc.Bytes)
	if err != nil {
		return "", err
	}
	val, err := c.Populate(b)
	if err != nil {
		return "", err
	}
	got := val.(*netcdf.Strings).Data
	if got[0] != "north" || got[1] != "south" {
		return "", fmt.Errorf("got %q", got)
	}
	return "width 8", nil
}

func checkEnum(c *netcdf.Converter, reg *netcdf.Registry) (string, error) {
	id, err := reg.DefEnum("quality", netcdf.TypeUByte, []netcdf.EnumMember{
		{Name: "good", Value: []byte{0}},
		{Name: "suspect", Value: []byte{1}},
		{Name: "bad", Value: []byte{2}},
	})
	if err != nil {
		return "", err
	}
	host := &netcdf.Factor{Codes: []int32{1, 3}, Levels: []string{"good", "suspect", "bad"}}
	enc, err := c.ToStorage(host, id, netcdf.ShapeVector, []uint64{2})
	if err != nil {
		return "", err
	}
	b, err := c.ReadInit(id, netcdf.ShapeVector, []uint64{2}, enc.Bytes)
	if err != nil {
		return "", err
	}
	val, err := c.Populate(b)
	if err != nil {
		return "", err
	}
	f := val.(*netcdf.Factor)
	if f.Codes[0] != 1 || f.Codes[1] != 3 {
		return "", fmt.Errorf("got codes %v", f.Codes)
	}
	return "3 members", nil
}

func checkVlen(c *netcdf.Converter, reg *netcdf.Registry) (string, error) {
	id, err := reg.DefVlen("profile", netcdf.TypeInt)
	if err != nil {
		return "", err
	}
	host := &netcdf.List{Items: []netcdf.Value{
		&netcdf.Ints{Data: []int32{1, 2, 3}},
		&netcdf.Ints{},
	}}
	enc, err := c.ToStorage(host, id, netcdf.ShapeVector, []uint64{2})
	if err != nil {
		return "", err
	}
	b, err := c.ReadInit(id, netcdf.ShapeVector, []uint64{2}, nil, netcdf.WithNativeInts())
	if err != nil {
		return "", err
	}
	copy(b.Vlens, enc.Vlens)
	val, err := c.Populate(b)
	if err != nil {
		return "", err
	}
	list := val.(*netcdf.List)
	if list.Items[0].Len() != 3 || list.Items[1].Len() != 0 {
		return "", fmt.Errorf("got lengths %d, %d", list.Items[0].Len(), list.Items[1].Len())
	}
	return "lengths 3, 0", nil
}

func checkCompound(c *netcdf.Converter, reg *netcdf.Registry) (string, error) {
	id, err := reg.DefCompound("sample", 8, []netcdf.CompoundField{
		{Name: "value", Offset: 0, Type: netcdf.TypeInt},
		{Name: "flag", Offset: 4, Type: netcdf.TypeShort},
	})
	if err != nil {
		return "", err
	}
	host := &netcdf.List{
		Names: []string{"value", "flag"},
		Items: []netcdf.Value{
			&netcdf.Ints{Data: []int32{42}},
			&netcdf.Ints{Data: []int32{1}},
		},
	}
	enc, err := c.ToStorage(host, id, netcdf.ShapeVector, []uint64{1})
	if err != nil {
		return "", err
	}
	b, err := c.ReadInit(id, netcdf.ShapeVector, []uint64{1}, enc.Bytes, netcdf.WithNativeInts())
	if err != nil {
		return "", err
	}
	val, err := c.Populate(b)
	if err != nil {
		return "", err
	}
	list := val.(*netcdf.List)
	if got := list.Items[0].(*netcdf.Ints).Data[0]; got != 42 {
		return "", fmt.Errorf("got value %d", got)
	}
	return "2 fields, 8 byte record", nil
}
