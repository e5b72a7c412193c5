package main

import "sorha/internal/app/server"

func main() {
	server.Run()
}
