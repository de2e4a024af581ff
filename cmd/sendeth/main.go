package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/nando-os/ghost-send/cmd/sendeth/cmd"
)

func setup() {
	// .env is optional; ETH_* and SENDETH_* may come from the real environment
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %+v\n", err)
	}

	// To route through a proxy, set these environment variables:
	// HTTP_PROXY=socks5://127.0.0.1:9050
	// HTTPS_PROXY=socks5://127.0.0.1:9050
}

func main() {
	setup()
	cmd.Execute()
}
