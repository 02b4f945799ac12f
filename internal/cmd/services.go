package main

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/RishabParuchuri/QuickPicks/internal/catalog"
	"github.com/RishabParuchuri/QuickPicks/internal/feed"
	"github.com/RishabParuchuri/QuickPicks/internal/gateway"
	"github.com/RishabParuchuri/QuickPicks/internal/session"
)

type Services struct {
	Sessions    *session.App
	Connections *gateway.ConnectionManager
	SessionWS   *gateway.SessionHandler
	Rooms       *gateway.RoomHandler
	Plays       *feed.PlaysHandler
	FeedClient  *feed.Client // nil when the feed is disabled
}

func setupServices(config *Config) (*Services, error) {
	// Wire up the dependency chain:
	// catalog → store/scoring → connection manager → orchestrator → handlers

	var provider catalog.Provider
	if config.Catalog.Path != "" {
		loaded, err := catalog.Load(config.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		provider = loaded
	} else {
		provider = catalog.NewStaticProvider(catalog.DefaultCatalog())
	}

	store := session.NewStore()
	scoring := session.NewScoring()
	connections := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())

	app := session.NewApp(store, provider, scoring, connections, clockwork.NewRealClock())

	sessionWS := gateway.NewSessionHandler(connections, app)
	rooms := gateway.NewRoomHandler(app, provider)

	history := feed.NewHistory(feed.DefaultCapacity)
	plays := feed.NewPlaysHandler(history)

	var feedClient *feed.Client
	if config.Feed.Enabled {
		feedClient = feed.NewClient(feed.ClientConfig{
			BaseURL: config.Feed.URL,
			Token:   config.Feed.Token,
			GameID:  config.Feed.GameID,
		}, history)
	}

	return &Services{
		Sessions:    app,
		Connections: connections,
		SessionWS:   sessionWS,
		Rooms:       rooms,
		Plays:       plays,
		FeedClient:  feedClient,
	}, nil
}
