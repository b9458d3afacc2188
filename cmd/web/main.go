package main

import "reelmates_backend/internal/app"

func main() {
	app.Run()
}
