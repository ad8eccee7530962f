// linkgen mints access links from the command line:
//
//	linkgen -type daily
//	linkgen -type 3-card -consultation -expires 72h
//	linkgen -type celtic-cross -master
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"tarot-service/pkg/config"
	"tarot-service/pkg/deck"
	"tarot-service/pkg/logging"
	"tarot-service/pkg/service"
	"tarot-service/pkg/storage"
)

func main() {
	readingType := flag.String("type", "", "reading type for the link (required)")
	master := flag.Bool("master", false, "mint a reusable master link")
	consultation := flag.Bool("consultation", false, "mint a consultation-gated link")
	expires := flag.Duration("expires", 0, "optional expiry, e.g. 72h (0 = never)")
	flag.Parse()

	if *readingType == "" || !deck.ValidType(*readingType) {
		fmt.Println("known reading types:")
		for _, cfg := range deck.ReadingTypes {
			fmt.Printf("  %-14s %d card(s)  %s\n", cfg.ID, cfg.CardCount, cfg.Name)
		}
		log.Fatal("-type is required and must name a known reading type")
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	logger := logging.NewLogger(logging.LevelError)
	links := service.NewLinkService(storage.NewPostgresLinkStorage(pool), nil, logger, cfg.BaseURL)

	req := &service.IssueLinkRequest{
		ReadingType: *readingType,
		IsMaster:    *master,
	}
	if *consultation {
		req.UserType = storage.UserTypeConsultation
	}
	if *expires > 0 {
		expiresAt := time.Now().Add(*expires)
		req.ExpiresAt = &expiresAt
	}

	resp, err := links.Issue(ctx, req)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.ShareURL)
}
