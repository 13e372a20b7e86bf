package main

import (
	"github.com/PeerTrade/PeerTrade-Backend/api"
)

var envPath string = "."

func main() {
	server := api.NewServer(envPath)
	server.Start()
}
