// Package logger はgommonのロガーをコンポーネント名付きで作る。
package logger

import (
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

// JSON1行で出す（time, level, prefix, file:line）
const header = `{"time":"${time_rfc3339}","level":"${level}","component":"${prefix}","file":"${short_file}","line":"${line}"}`

// New はcomponentをprefixにしたロガーを返す。levelは debug/info/warn/error/off。
func New(component string, level string) *log.Logger {
	l := log.New(component)
	l.SetOutput(os.Stdout)
	l.SetHeader(header)
	l.SetLevel(ParseLevel(level))
	return l
}

func ParseLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// テスト用（何も出さない）
func Discard(component string) *log.Logger {
	l := log.New(component)
	l.SetLevel(log.OFF)
	return l
}
