// Package morkato holds the cached entity graph of the bot: guilds and the
// arts, attacks, abilities, families and players they own.
//
// A State owns every Guild. A Guild owns its collections and each Art owns
// its attacks; every attack is also indexed by the guild. Entities keep
// back-references to their owners but never own them.
//
// # Usage
//
//	client, _ := api.NewClient(api.Hosts{BaseURL: apiURL, CDNURL: cdnURL}, logger)
//	client.StaticLogin()
//	state := morkato.NewState(client, logger)
//	defer state.Close()
//
//	guild, err := state.FetchGuild(ctx, guildID)
//	if err != nil {
//		return err
//	}
//	art := guild.GetArt(artID)
//	attack, err := art.CreateAttack(ctx, api.AttackCreate{Name: "Dance"})
//
// Every mutating operation is applied server side first; the cache is only
// updated with what the server returns.
package morkato
