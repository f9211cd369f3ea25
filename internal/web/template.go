package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/button-panel/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s status.ChannelStatus) string {
		if s.Button == "" {
			return "UNKNOWN"
		}
		return string(s.Button)
	},
	"ledState": func(s status.ChannelStatus) string {
		if s.LED {
			return "ON"
		}
		return "OFF"
	},
	"inc": func(i int) int { return i + 1 },
}).Parse(indexHTML))

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("render status page: %v", err)
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Button Panel</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.pressed { color: green; font-weight: bold; }
.released { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Button Panel</h1>

<h2>Channels</h2>
<table>
<tr><th>#</th><th>Button</th><th>LED</th><th>Pressed</th><th>Released</th></tr>
{{range $i, $ch := .Channels}}<tr>
<td>{{inc $i}}</td>
<td class="{{if eq (stateOrUnknown $ch) "PRESSED"}}pressed{{else if eq (stateOrUnknown $ch) "RELEASED"}}released{{else}}unknown{{end}}">{{stateOrUnknown $ch}}</td>
<td class="{{if $ch.LED}}on{{else}}off{{end}}">{{ledState $ch}}</td>
<td>{{$ch.Pressed}}</td>
<td>{{$ch.Released}}</td>
</tr>{{end}}
</table>

<h2>State</h2>
<table>
<tr><th>Ready</th><td>{{if .Baselined}}yes{{else}}no{{end}}</td></tr>
{{if .Config.Broker}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Serial</th><td>{{.Config.Serial}}</td></tr>
<tr><th>Panel</th><td>{{.Config.Panel}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{if eq .Config.DebounceMs 0}}single-sample{{else}}{{.Config.DebounceMs}}ms{{end}}</td></tr>
{{if .Config.Game}}<tr><th>Game</th><td>{{.Config.Game}}</td></tr>{{end}}
{{if .Config.Legacy}}<tr><th>Protocol</th><td>legacy (no suffix)</td></tr>{{end}}
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`
