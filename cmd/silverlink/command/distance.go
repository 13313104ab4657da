package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askwhyharsh/silverlink/internal/location"
	"github.com/askwhyharsh/silverlink/pkg/validator"
)

var distanceCmd = &cobra.Command{
	Use:     "distance FROM TO",
	Short:   "Print the great-circle distance between two lat,lon points",
	Example: "  silverlink distance 37.5665,126.9780 37.5720,126.9793",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := validator.NewValidator()

		from, err := parsePoint(v, args[0])
		if err != nil {
			return err
		}
		to, err := parsePoint(v, args[1])
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), location.Distance(from, to))
		return err
	},
}

func init() {
	rootCmd.AddCommand(distanceCmd)
}

func parsePoint(v validator.Validator, raw string) (location.Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(raw, ",")
	if !ok {
		return location.Coordinate{}, fmt.Errorf("point %q: want lat,lon", raw)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return location.Coordinate{}, fmt.Errorf("point %q: latitude: %w", raw, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return location.Coordinate{}, fmt.Errorf("point %q: longitude: %w", raw, err)
	}

	if err := v.ValidateCoordinates(lat, lon); err != nil {
		return location.Coordinate{}, fmt.Errorf("point %q: %w", raw, err)
	}
	return location.Coordinate{Latitude: lat, Longitude: lon}, nil
}
