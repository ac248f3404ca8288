// Package autoload initializes the global logger from the environment when
// blank-imported.
package autoload

import (
	configx "github.com/tasia-assistant/tasia/pkg/config"
	logx "github.com/tasia-assistant/tasia/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOGGER")
	logx.Init(*cfg)
}
