// Package api provides a client for the morkato REST backend.
//
// The backend stores the role-playing entities of a Discord guild: arts and
// their attacks, abilities, families and players. This package only speaks
// the wire protocol; the cached object graph lives in package morkato.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := api.NewClient(api.Hosts{
//		BaseURL: "http://localhost:5500",
//		CDNURL:  "http://localhost:5050",
//	}, logger, api.WithTimeout(10*time.Second))
//	if err != nil {
//		log.Fatal(err)
//	}
//	client.StaticLogin()
//	defer client.Close()
//
//	arts, err := client.FetchArts(ctx, guildID)
//
// # Partial updates
//
// Update requests take Optional fields. Only provided fields are sent, so an
// absent field is left untouched by the server while Some(0) sets it to zero:
//
//	client.UpdateArt(ctx, guildID, artID, api.ArtUpdate{
//		Name: api.Some("Water Breathing"),
//	})
//
// # Error Handling
//
// Non-2xx responses map to:
//
//   - UserNotFoundError: 404 whose model is USER
//   - NotFoundError: 404 for any other known model
//   - UnknownModelError: 404 with an unrecognized model tag (matches ErrUnknownModel)
//   - ServerError: any 5xx, never retried
//   - HTTPError: everything else; all of the above unwrap to it
//
// Connection reset and connection refused failures are retried up to five
// attempts total with a 1s, 3s, 5s, 7s schedule. Requests made before
// StaticLogin fail with ErrNotConnected.
package api
