// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the admin session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Exchange admin credentials for a bearer token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Admin username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Admin password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the current session state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session token",
				Action: r.AuthLogout,
			},
		},
	}
}

// gamesCommand handles catalog entry operations
func gamesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "games",
		Aliases: []string{"g"},
		Usage:   "Manage catalog entries",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog entries",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Filter by title substring",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Filter by category (Game or App)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.GamesList,
			},
			{
				Name:  "create",
				Usage: "Create a catalog entry",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Entry title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Entry description",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category (Game or App)",
						Value: "Game",
					},
					&cli.StringFlag{
						Name:  "tags",
						Usage: "Comma-separated tag IDs",
					},
					&cli.StringFlag{
						Name:  "video",
						Usage: "Video link",
					},
					&cli.StringFlag{
						Name:  "image",
						Usage: "Local image file to upload before saving",
					},
				},
				Action: r.GamesCreate,
			},
			{
				Name:  "update",
				Usage: "Update a catalog entry",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Entry ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Entry title",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Entry description",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category (Game or App)",
					},
					&cli.StringFlag{
						Name:  "tags",
						Usage: "Comma-separated tag IDs",
					},
					&cli.StringFlag{
						Name:  "video",
						Usage: "Video link",
					},
					&cli.StringFlag{
						Name:  "image",
						Usage: "Local image file to upload before saving",
					},
				},
				Action: r.GamesUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a catalog entry",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip the confirmation gate",
					},
				},
				Action: r.GamesDelete,
			},
			{
				Name:  "open",
				Usage: "Open an entry's image or video link in the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "video",
						Usage: "Open the video link instead of the image",
					},
				},
				Action: r.GamesOpen,
			},
		},
	}
}

// tagsCommand handles tag operations
func tagsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tags",
		Aliases: []string{"t"},
		Usage:   "Manage tags",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tags grouped by owning category",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TagsList,
			},
			{
				Name:  "create",
				Usage: "Create a tag",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "belongs-to",
						Usage: "Owning category (Game or App)",
						Value: "Game",
					},
				},
				Action: r.TagsCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete a tag",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip the confirmation gate",
					},
				},
				Action: r.TagsDelete,
			},
		},
	}
}

// usersCommand handles user account operations
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "users",
		Aliases: []string{"u"},
		Usage:   "Manage user accounts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List user accounts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.UsersList,
			},
			{
				Name:  "subscribe",
				Usage: "Grant a subscription",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.UsersSubscribe,
			},
			{
				Name:  "unsubscribe",
				Usage: "Revoke a subscription",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.UsersUnsubscribe,
			},
		},
	}
}

// uploadCommand handles standalone asset uploads
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload assets to the backend",
		Commands: []*cli.Command{
			{
				Name:  "picture",
				Usage: "Upload an image and print the stored reference",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.UploadPicture,
			},
		},
	}
}

// exportCommand writes catalog snapshots to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog to a local file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format: json, csv, markdown, txt",
				Value: "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (file or directory depending on format)",
			},
		},
		Action: r.Export,
	}
}

// assetsCommand handles bulk asset downloads
func assetsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "assets",
		Usage: "Work with catalog asset files",
		Commands: []*cli.Command{
			{
				Name:  "pull",
				Usage: "Download every referenced asset file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent downloads",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second",
					},
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Re-download files that already exist",
					},
				},
				Action: r.AssetsPull,
			},
		},
	}
}

// auditCommand inspects the local audit log
func auditCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Inspect the local audit log",
		Commands: []*cli.Command{
			{
				Name:  "recent",
				Usage: "Show recent admin actions",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum entries to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuditRecent,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the state database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Destination path",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the state database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive catalog management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for catalog administration",
		Action:  r.TUI,
	}
}
