package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/magpend/internal/dipole"
	"github.com/san-kum/magpend/internal/experiment"
	"github.com/spf13/cobra"
)

func parseVec(s string) (dipole.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return dipole.Vector3{}, fmt.Errorf("vector %q: want x,y,z", s)
	}
	var v dipole.Vector3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return dipole.Vector3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}

func evalForce(cmd *cobra.Command, args []string) error {
	var vecs [4]dipole.Vector3
	for i, arg := range args {
		v, err := parseVec(arg)
		if err != nil {
			return err
		}
		vecs[i] = v
	}

	fn, err := experiment.NewRegistry().GetLaw(law)
	if err != nil {
		return err
	}

	r1, m1, r2, m2 := vecs[0], vecs[1], vecs[2], vecs[3]
	var f dipole.Vector3
	if strict {
		if f, err = dipole.CheckedForce(fn, r1, m1, r2, m2); err != nil {
			return err
		}
	} else {
		f = fn(r1, m1, r2, m2)
	}

	fmt.Printf("law:   %s\n", law)
	fmt.Printf("force: (%.6g, %.6g, %.6g) N\n", f[0], f[1], f[2])
	fmt.Printf("|F|:   %.6g N\n", f.Len())
	if !dipole.IsFinite(f) {
		fmt.Println("warning: non-finite result (coincident positions?)")
	}
	return nil
}
