package main

import (
	"routeaura/apps/gateway"
	"routeaura/cmd/gateway/router"
	"routeaura/internal"
	"routeaura/pkg"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		gateway.Module,
		router.Module,
		pkg.Module,
		internal.Module,
	).Run()
}
