// Command signer prints a signed resize path for its argument, e.g.
//
//	MINIATURS_SHARED_SECRET=... signer 100x-200/https://example.com/cat.png
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/andreyxaxa/miniaturs/pkg/signature"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type config struct {
	SharedSecret string `env:"MINIATURS_SHARED_SECRET,required,notEmpty"`
}

func main() {
	if _, err := os.Stat(".env"); err == nil {
		err = godotenv.Load()
		if err != nil {
			log.Fatalf("config error: %s", err)
		}
	}

	if len(os.Args) != 2 {
		log.Fatalf("usage: %s WxH/url", os.Args[0])
	}

	cfg, err := env.ParseAs[config]()
	if err != nil {
		log.Fatalf("config error: %s", err)
	}

	path := os.Args[1]

	sig, err := signature.Sign(cfg.SharedSecret, path)
	if err != nil {
		log.Fatalf("sign error: %s", err)
	}

	fmt.Printf("%s/%s\n", sig, path)
}
