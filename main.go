package main

import (
	"log"
)

// Build infos injected at compile time.
var (
	GitCommit string
	GitTag    string
	BuildTime string
)

// @title Bookstore API
// @version 1.0
// @description REST API to manage a bookstore catalog, customers accounts and orders.
// @contact.name API Support
// @license.name MIT
// @license.url https://github.com/jeamon/bookstore-api/blob/master/LICENSE
// @host localhost:8080
// @BasePath /
func main() {
	app, err := NewApp()
	if err != nil {
		log.Fatal("application failed to initialized: ", err)
	}
	err = app.Run()
	if err != nil {
		log.Fatal("application exited. check logs for more details.", err)
	}
}
