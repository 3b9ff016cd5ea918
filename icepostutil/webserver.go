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
	"html/template"
	"net/http"

	"github.com/ctessum/gobra"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

// GUIAddress is the address the graphical interface is served at.
const GUIAddress = "localhost:7272"

// configHandler reads the configuration file given in the "config"
// form value and responds with the resulting value of every option.
func configHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	Root.PersistentFlags().Set("config", r.Form.Get("config"))
	if err := setConfig(); err != nil {
		http.Error(w, err.Error(), http.StatusNoContent)
		return
	}
	config := make(map[string]interface{}, len(options))
	for _, option := range options {
		config[option.name] = Cfg.Get(option.name)
	}
	if err := json.NewEncoder(w).Encode(config); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// StartWebServer starts a graphical interface to the commands
// and opens it in the browser.
func StartWebServer() error {
	if err := setConfig(); err != nil {
		logrus.WithError(err).Warn("icepost: reading configuration")
	}
	http.HandleFunc("/setConfig", configHandler)

	silenceUsage(Root) // We don't want the usage messages in the GUI.

	output := template.Must(template.New("").Parse(guiTemplate))
	server := gobra.Server{Root: Root, ServerAddress: GUIAddress, AllowCORS: false, HTML: output}
	logrus.WithField("address", GUIAddress).Info("icepost: starting graphical interface")
	if err := open.Run("http://" + GUIAddress); err != nil {
		fmt.Printf("If not opened automatically, please visit http://%s\n", GUIAddress)
	}
	server.Start()
	return nil
}

// silenceUsage turns off the usage message on error for cmd and
// every command below it.
func silenceUsage(cmd *cobra.Command) {
	cmd.SilenceUsage = true
	for _, c := range cmd.Commands() {
		silenceUsage(c)
	}
}

const guiTemplate = `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>ICEpost</title>
	<style>
		body { font-family: sans-serif; margin: 2% 0; }
		.container { max-width: 760px; margin: 0 auto; }
		div[id^="gobra-"] blockquote { border-left: 3px solid #aaa; margin: .3em; padding-left: 5px; font-size: 80%; }
		div[id^="gobra-"] input { font-family: monospace; width: 50%; }
		.from-file { border: 1px solid #3a5; }
		.from-user { border: 1px solid #35c; }
		.invalid { border: 1px solid #c35; }
	</style>
</head>
<body>
<div class="container">
	<h1>ICEpost</h1>
	<p>Choose a command and fill in its options below. Options read from the
	configuration file are outlined in green, options you edit in blue.</p>
	<div>{{.}}</div>
</div>
<script>
const flags = [...document.querySelectorAll('[data-name]')];
const mark = (input, cls) => {
	input.classList.remove("from-file", "from-user", "invalid");
	if (cls) input.classList.add(cls);
};
flags.forEach(f => f.children[0].addEventListener("input", () => mark(f.children[0], "from-user")));

const config = flags.find(f => f.dataset.name == "config").children[0];
config.addEventListener("input", () => {
	fetch("/setConfig?config=" + encodeURIComponent(config.value)).then(res => {
		if (res.status == 204) {
			mark(config, "invalid");
			return;
		}
		res.json().then(values => {
			mark(config, "from-user");
			for (const f of flags) {
				if (!(f.dataset.name in values)) continue;
				const input = f.children[0];
				const v = JSON.stringify(values[f.dataset.name]).replace(/^"+|"+$/g, '');
				if (input.value != v) {
					input.value = v;
					mark(input, "from-file");
				}
			}
		});
	}).catch(err => console.log("setConfig:", err));
});
</script>
</body>
</html>`
