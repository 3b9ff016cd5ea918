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

package icepostutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/icepost/icepost/selection"
	"github.com/icepost/icepost/tabulation"
	"github.com/icepost/icepost/thermo/lfs"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// getStringMap returns a map from a viper configuration, accounting for
// the fact that it might be a JSON object if it was set from a command
// line argument. conv converts the values read from a configuration file.
func getStringMap[T any](varName string, cfg *viper.Viper, conv func(interface{}) (T, error)) (map[string]T, error) {
	switch v := cfg.Get(varName).(type) {
	case nil:
		return make(map[string]T), nil
	case map[string]T:
		return v, nil
	case string:
		o := make(map[string]T)
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		if err := json.NewDecoder(strings.NewReader(v)).Decode(&o); err != nil {
			return nil, fmt.Errorf("icepost: invalid value for %s: %v", varName, err)
		}
		return o, nil
	default:
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return nil, fmt.Errorf("icepost: invalid type for %s: %#v", varName, v)
		}
		o := make(map[string]T, len(m))
		for k, val := range m {
			if o[k], err = conv(val); err != nil {
				return nil, fmt.Errorf("icepost: invalid value for %s.%s: %v", varName, k, err)
			}
		}
		return o, nil
	}
}

// GetStringMapString returns a map[string]string from a viper configuration.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	return getStringMap(varName, cfg, cast.ToStringE)
}

func getStringMapFloat(varName string, cfg *viper.Viper) (map[string]float64, error) {
	return getStringMap(varName, cfg, cast.ToFloat64E)
}

func getStringMapFloatSlice(varName string, cfg *viper.Viper) (map[string][]float64, error) {
	return getStringMap(varName, cfg, selection.ToFloat64SliceE)
}

func getStringMapIntSlice(varName string, cfg *viper.Viper) (map[string][]int, error) {
	return getStringMap(varName, cfg, cast.ToIntSliceE)
}

// queryOptions returns the options for out-of-range queries.
func queryOptions() tabulation.Options {
	return tabulation.Options{
		Fatal:       Cfg.GetBool("fatal"),
		Extrapolate: Cfg.GetBool("extrapolate"),
	}
}

func lfsState() lfs.State {
	return lfs.State{
		P:   Cfg.GetFloat64("p"),
		T:   Cfg.GetFloat64("T"),
		Phi: Cfg.GetFloat64("phi"),
		EGR: Cfg.GetFloat64("EGR"),
	}
}
