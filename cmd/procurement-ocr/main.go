package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// .env carries the Feishu credentials, same file the table setup uses
	_ = godotenv.Load()

	cli := NewCLI()
	if err := cli.Run(os.Args[1:]); err != nil {
		log.Fatal("Error:", err)
	}
}
