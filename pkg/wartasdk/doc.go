// Package wartasdk is the Go client for the warta-core service.
//
// It covers the full HTTP surface: account registration and login, session
// heartbeats, the presence snapshot, and article publishing. The shared
// request/response types double as the server-side DTOs so the wire contract
// lives in one place.
//
// A minimal publisher flow:
//
//	client := wartasdk.NewClient("http://localhost:8080")
//
//	login, err := client.Login(ctx, "siti", "rahasia")
//	if err != nil {
//		log.Fatal(err)
//	}
//	session := client.WithToken(login.AccessToken)
//
//	art, err := session.CreateArticle(ctx, "Judul", "Isi berita", false)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := session.PublishArticle(ctx, art.ID); err != nil {
//		log.Fatal(err)
//	}
//
// Keeping the session visibly online is the client's job; Beacon runs the
// heartbeat loop in the background:
//
//	beacon := wartasdk.NewBeacon(session, login.SessionID)
//	beacon.Start(ctx)
//	defer beacon.Stop()
package wartasdk
