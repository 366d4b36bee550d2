package main

import (
	"go.uber.org/fx"

	"github.com/getaipilot/joincounter/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
