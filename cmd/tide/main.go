// Command tide asks the tide pipeline one question from the command line.
//
//	tide norfolk virginia
//	tide -rank new port
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/kelseyhightower/envconfig"

	"github.com/spencer-p/navo/pkg/logging"
	"github.com/spencer-p/navo/pkg/skill"
)

type Config struct {
	LogLevel string `envconfig:"log_level" default:"warn"`
	Debug    bool   `default:"false"`

	skill.Config
}

func main() {
	rank := flag.Bool("rank", false, "list every matching station with its score instead of fetching")
	showCard := flag.Bool("card", false, "print the card text as well as the speech")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-rank] [-card] <utterance...>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	utterance := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(utterance) == "" {
		flag.Usage()
		os.Exit(2)
	}

	var env Config
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal(err.Error())
	}
	// Each invocation is a single question, so a cache would never hit.
	env.CacheTTL = 0
	env.RedisAddr = ""

	logger, err := logging.New(env.LogLevel, env.Debug)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logger.Sync()

	sk, _, err := skill.FromConfig(context.Background(), env.Config, logger)
	if err != nil {
		log.Fatal(err.Error())
	}

	if *rank {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCORE\tID\tNAME\tPROVIDER")
		for _, m := range sk.Rank(utterance) {
			fmt.Fprintf(w, "%.4f\t%s\t%s\t%s\n", m.Score, m.Station.ID, m.Station.Name, m.Station.Provider)
		}
		w.Flush()
		return
	}

	resp := sk.HandleTideQuery(context.Background(), utterance)
	fmt.Println(resp.Speech)
	if *showCard {
		fmt.Printf("\n%s\n%s\n", resp.Card.Title, resp.Card.Text)
	}
}
