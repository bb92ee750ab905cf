package main

import (
	"github.com/surfsky/GoodsAI/internal/app"
)

func main() {
	app.Run()
}
