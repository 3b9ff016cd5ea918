/*
Copyright © 2024 the ICEpost authors.
This file is part of ICEpost.

ICEpost is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ICEpost is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ICEpost.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package icepostutil contains the command-line interface of ICEpost.
package icepostutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/icepost/icepost/selection"
	_ "github.com/icepost/icepost/thermo" // register the thermophysical models
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the version of ICEpost.
const Version = "1.0.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ICEpost.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.
              TOML and YAML files are supported.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the minimum level of the messages
              that are logged: one of debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "order",
			usage: `
              order specifies the nesting order of the axes of the
              tabulation, slowest-varying first.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{tableCmd.PersistentFlags()},
		},
		{
			name: "files",
			usage: `
              files maps each field of the tabulation to the file in
              the 'constant' folder it is stored in, as a JSON object.
              If empty, every file in the 'constant' folder is read
              as the field of the same name.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{tableCmd.PersistentFlags()},
		},
		{
			name: "inputNames",
			usage: `
              inputNames maps tableProperties entries to axes, as a
              JSON object, for entries that do not follow the
              '<axis>Values' naming convention.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{tableCmd.PersistentFlags()},
		},
		{
			name: "fatal",
			usage: `
              fatal specifies whether queries outside of the range of
              the table are errors.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{queryCmd.Flags(), lfsCmd.Flags()},
		},
		{
			name: "extrapolate",
			usage: `
              extrapolate specifies whether queries outside of the range
              of the table are extrapolated. Otherwise they return NaN.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{queryCmd.Flags(), lfsCmd.Flags()},
		},
		{
			name: "overwrite",
			usage: `
              overwrite specifies whether an existing output directory
              is replaced.`,
			defaultVal: false,
			flagsets: []*pflag.FlagSet{concatCmd.Flags(), reorderCmd.Flags(),
				sliceCmd.Flags(), createCmd.Flags(), deriveCmd.Flags(), tabulateCmd.Flags()},
		},
		{
			name: "neworder",
			usage: `
              neworder specifies the nesting order of the axes of the
              reordered tabulation.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{reorderCmd.Flags()},
		},
		{
			name: "slice",
			usage: `
              slice maps axes to the indices of the sampling points to
              keep, as a JSON object. Axes that are not listed are kept
              whole.`,
			defaultVal: map[string][]int{},
			flagsets:   []*pflag.FlagSet{sliceCmd.Flags()},
		},
		{
			name: "fields",
			usage: `
              fields maps the names of new fields to expressions of
              the axes and of the existing fields, as a JSON object.
              The functions exp, log, sqrt, abs and pow are available.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), deriveCmd.Flags()},
		},
		{
			name: "x",
			usage: `
              x specifies the axis on the horizontal axis of the plot.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "c",
			usage: `
              c specifies the axis whose sampling points are drawn as
              separate lines.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "iso",
			usage: `
              iso holds the values of the remaining axes, as a JSON
              object.`,
			defaultVal: map[string]float64{},
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "out",
			usage: `
              out specifies the file the plot is written to. Its
              extension sets the format.`,
			shorthand:  "o",
			defaultVal: "plot.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "p",
			usage: `
              p specifies the pressure [Pa].`,
			defaultVal: 101325.0,
			flagsets:   []*pflag.FlagSet{lfsCmd.Flags()},
		},
		{
			name: "T",
			usage: `
              T specifies the temperature of the unburnt mixture [K].`,
			defaultVal: 300.0,
			flagsets:   []*pflag.FlagSet{lfsCmd.Flags()},
		},
		{
			name: "phi",
			usage: `
              phi specifies the equivalence ratio.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{lfsCmd.Flags()},
		},
		{
			name: "EGR",
			usage: `
              EGR specifies the mass fraction of exhaust gas
              recirculation.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{lfsCmd.Flags()},
		},
		{
			name: "ranges",
			usage: `
              ranges holds the sampling points of each axis of the
              table, as a JSON object. For 'lfs tabulate' the axes are
              p, T, phi and (optionally) EGR.`,
			defaultVal: map[string][]float64{},
			flagsets:   []*pflag.FlagSet{tabulateCmd.Flags(), createCmd.Flags()},
		},
		{
			name: "thickness",
			usage: `
              thickness specifies whether the laminar flame thickness
              is tabulated.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{tabulateCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ICEPOST")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, v, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, v, option.usage)
				}
			case []string:
				set.StringSlice(option.name, v, option.usage)
			case bool:
				set.Bool(option.name, v, option.usage)
			case float64:
				set.Float64(option.name, v, option.usage)
			case map[string]string, map[string]float64, map[string][]float64, map[string][]int:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(v)
				set.String(option.name, string(bytes.TrimSpace(b.Bytes())), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(modelsCmd)
	Root.AddCommand(tableCmd)
	tableCmd.AddCommand(infoCmd)
	tableCmd.AddCommand(queryCmd)
	tableCmd.AddCommand(concatCmd)
	tableCmd.AddCommand(reorderCmd)
	tableCmd.AddCommand(sliceCmd)
	tableCmd.AddCommand(plotCmd)
	tableCmd.AddCommand(createCmd)
	tableCmd.AddCommand(deriveCmd)
	Root.AddCommand(lfsCmd)
	lfsCmd.AddCommand(tabulateCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("icepost: problem reading configuration file: %v", err)
		}
	}
	return setLogging(Cfg.GetString("LogLevel"))
}

// setLogging configures the standard logger, which is used by all
// of the ICEpost packages.
func setLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("icepost: %v", err)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(lvl)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "icepost",
	Short: "Post-processing of internal combustion engine data.",
	Long: `ICEpost is a toolkit for the post-processing of internal combustion engine
data. Use the subcommands specified below to inspect and manipulate tabulated
properties and to evaluate the thermophysical models.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ICEPOST_var' where 'var' is the
name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ICEpost.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ICEpost v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the available models",
	Long: `models prints the types that can be selected in each model family,
for use in the 'type' entry of model dictionaries.`,
	Run: func(cmd *cobra.Command, args []string) {
		describeModels(cmd.OutOrStdout(), selection.Default)
	},
	DisableAutoGenTag: true,
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Inspect and manipulate tabulations",
	Long: `table holds subcommands for tabulations stored in OpenFOAM format:
a directory holding a 'tableProperties' dictionary with the sampling
points of each axis and a 'constant' folder with one scalar list per field.`,
	DisableAutoGenTag: true,
}

var infoCmd = &cobra.Command{
	Use:   "info path",
	Short: "Print a description of a tabulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := readTable(args[0])
		if err != nil {
			return err
		}
		return tableInfo(cmd.OutOrStdout(), tb)
	},
	DisableAutoGenTag: true,
}

var queryCmd = &cobra.Command{
	Use:   "query path field x1 [x2...]",
	Short: "Interpolate a field of a tabulation",
	Long: `query prints the value of field interpolated at the point with
coordinates x1, x2... given in the order of the axes.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := readTable(args[0])
		if err != nil {
			return err
		}
		v, err := query(tb, args[1], args[2:], queryOptions())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
	DisableAutoGenTag: true,
}

var concatCmd = &cobra.Command{
	Use:   "concat out a b",
	Short: "Concatenate two tabulations",
	Long: `concat joins tabulations a and b, which must differ in the sampling
points of a single axis, and writes the result to directory out.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := readTable(args[1])
		if err != nil {
			return err
		}
		b, err := readTable(args[2])
		if err != nil {
			return err
		}
		c, err := a.Concat(b)
		if err != nil {
			return err
		}
		return writeTable(c, args[0])
	},
	DisableAutoGenTag: true,
}

var reorderCmd = &cobra.Command{
	Use:   "reorder path out",
	Short: "Change the nesting order of the axes of a tabulation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := readTable(args[0])
		if err != nil {
			return err
		}
		if err := tb.SetOrder(Cfg.GetStringSlice("neworder")); err != nil {
			return err
		}
		return writeTable(tb, args[1])
	},
	DisableAutoGenTag: true,
}

var sliceCmd = &cobra.Command{
	Use:   "slice path out",
	Short: "Extract part of a tabulation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := readTable(args[0])
		if err != nil {
			return err
		}
		idx, err := getStringMapIntSlice("slice", Cfg)
		if err != nil {
			return err
		}
		s, err := tb.Slice(idx)
		if err != nil {
			return err
		}
		return writeTable(s, args[1])
	},
	DisableAutoGenTag: true,
}

var createCmd = &cobra.Command{
	Use:   "create out",
	Short: "Create a tabulation from expressions",
	Long: `create samples the expressions given in --fields at every point of
the grid given in --ranges and --order and writes the tabulation to
directory out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return createTable(args[0])
	},
	DisableAutoGenTag: true,
}

var deriveCmd = &cobra.Command{
	Use:   "derive path out",
	Short: "Add fields computed from expressions to a tabulation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := readTable(args[0])
		if err != nil {
			return err
		}
		if err := deriveFields(tb); err != nil {
			return err
		}
		return writeTable(tb, args[1])
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot path field",
	Short: "Plot a field of a tabulation",
	Long: `plot draws field against axis --x, with one line per sampling point
of axis --c, at the values of the remaining axes given in --iso.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := readTable(args[0])
		if err != nil {
			return err
		}
		iso, err := getStringMapFloat("iso", Cfg)
		if err != nil {
			return err
		}
		return plotField(tb, args[1], Cfg.GetString("x"), Cfg.GetString("c"), iso,
			os.ExpandEnv(Cfg.GetString("out")))
	},
	DisableAutoGenTag: true,
}

var lfsCmd = &cobra.Command{
	Use:   "lfs dictionary",
	Short: "Evaluate a laminar flame speed model",
	Long: `lfs selects the laminar flame speed model described in the dictionary
file (TOML or YAML) and prints the laminar flame speed at the state given
by --p, --T, --phi and --EGR. The model type is set by the 'type' entry.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := selectLFS(args[0])
		if err != nil {
			return err
		}
		return evalLFS(cmd.OutOrStdout(), m, lfsState(), queryOptions())
	},
	DisableAutoGenTag: true,
}

var tabulateCmd = &cobra.Command{
	Use:   "tabulate dictionary out",
	Short: "Tabulate a laminar flame speed model",
	Long: `tabulate evaluates the laminar flame speed model described in the
dictionary file at every point of the grid given in --ranges and writes
the result to directory out in OpenFOAM format.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := selectLFS(args[0])
		if err != nil {
			return err
		}
		ranges, err := getStringMapFloatSlice("ranges", Cfg)
		if err != nil {
			return err
		}
		return tabulateLFS(m, ranges, Cfg.GetBool("thickness"), args[1])
	},
	DisableAutoGenTag: true,
}
