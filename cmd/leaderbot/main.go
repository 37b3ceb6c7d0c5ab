package main

import (
	"flag"
	"log"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/nooblab/leaderbot"
	"github.com/nooblab/leaderbot/config"
	"github.com/nooblab/leaderbot/store"
	"github.com/nooblab/leaderbot/store/localdb"
	"github.com/nooblab/leaderbot/store/mongodb"
	"github.com/spf13/viper"
)

const name = "leaderbot"

func main() {
	configurationPath := flag.String("config", "", "The path to a configuration file")
	flag.Parse()

	v := config.NewViperWithDefaults()
	v.SetEnvPrefix(strings.ToUpper(name))
	v.AutomaticEnv()

	if *configurationPath != "" {
		path, err := homedir.Expand(*configurationPath)
		if err != nil {
			log.Fatalf("Error expanding configuration path [%s]: %v", *configurationPath, err)
		}

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("Error loading configuration file [%s]: %v", path, err)
		}
	}

	storer, err := newStorer(v)
	if err != nil {
		log.Fatalf("Error opening the aggregate store: %v", err)
	}
	defer storer.Close()

	bot, err := leaderbot.New(name, v, storer)
	if err != nil {
		log.Fatalf("Error initializing %s: %v", name, err)
	}

	if err := bot.Run(); err != nil {
		log.Fatalf("Error running %s: %v", name, err)
	}
}

// newStorer opens the configured mongodb-backed store or falls back to a
// local leveldb-backed one when no mongodb uri is configured
func newStorer(v *viper.Viper) (storer store.UserStatsStorer, err error) {
	if uri := v.GetString(config.MongoURIKey); uri != "" {
		return mongodb.New(uri, v.GetString(config.DatabaseKey), v.GetString(config.CollectionKey), config.GetStoreTimeout(v))
	}

	return localdb.New(v.GetString(config.CollectionKey), v.GetString(config.StoragePathKey))
}
