// Package config provides client profile management.
//
// A profile bundles everything needed to join a match: the server to dial,
// the room code, the arena size used for drawing, the paddle speed sent with
// each intent, how long to wait before leaving after the opponent drops,
// and where frame journals are written.
//
// Profile Format:
//
// Profiles are TOML files in the configs directory:
//
//	name = "local"
//	server = "localhost:8080"
//	code = "abc123"
//	width = 1600
//	height = 800
//	paddle_speed = 6
//	navigate_delay = "5s"
//	journal_dir = "journals"
//	sound = true
//
//	[control]
//	listen = "127.0.0.1:8081"
//	ngrok_domain = ""
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := manager.LoadProfile("local")
//	if errors.Is(err, config.ErrProfileNotFound) {
//		profile = manager.GetDefault()
//	}
//
// Validation:
//
// Loaded and saved profiles are checked for a server host, positive arena
// dimensions and paddle speed, and a non-negative navigation delay. Fields
// left out of a file take the values of the minimal default profile.
package config
