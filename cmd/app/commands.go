package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Lobco894/NotePad-new-master/internal"
	"github.com/Lobco894/NotePad-new-master/internal/clipboard"
	"github.com/Lobco894/NotePad-new-master/internal/models"
	"github.com/Lobco894/NotePad-new-master/internal/noteservice"
	"github.com/Lobco894/NotePad-new-master/internal/session"
)

// withService opens the configured store for the duration of fn.
// Command logs go to stderr so stdout stays parseable.
func withService(fn func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		slog.SetDefault(logger)

		svc, store, err := internal.Open(cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(ctx, cmd, svc)
	}
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// noteID parses the first argument as a note id.
func noteID(cmd *cli.Command) (int64, error) {
	arg := cmd.Args().First()
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("expected a note id, got %q", arg)
	}
	return id, nil
}

// textArgs joins args starting at from. A lone "-" reads stdin.
func textArgs(cmd *cli.Command, from int) (string, error) {
	args := cmd.Args().Slice()
	if len(args) <= from {
		return "", nil
	}
	if len(args) == from+1 && args[from] == "-" {
		data, err := io.ReadAll(stdin(cmd))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	return strings.Join(args[from:], " "), nil
}

func printNotes(w io.Writer, notes []models.Note) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODIFIED\tCATEGORY\tTITLE")
	for _, n := range notes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", n.ID, n.UpdatedAt.Local().Format(time.DateTime), n.Category, n.Title)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// finish closes a session and reports what happened to the note.
func finish(ctx context.Context, w io.Writer, s *session.Session) error {
	if err := s.Close(ctx); err != nil {
		return err
	}
	if s.Body() == "" {
		fmt.Fprintln(w, "empty note discarded")
		return nil
	}
	fmt.Fprintf(w, "%s\t%s\n", s.URI(), s.Title())
	return nil
}

func noteCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list",
			Usage: "List notes, newest first",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "category", Usage: "Only notes in this category"},
				&cli.StringFlag{Name: "sort", Usage: `Column and direction, e.g. "title ASC"`},
				&cli.IntFlag{Name: "limit", Usage: "Max results"},
			},
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				notes, err := svc.ListNotes(ctx, noteservice.ListOptions{
					Category: cmd.String("category"),
					Sort:     cmd.String("sort"),
					Limit:    int(cmd.Int("limit")),
				})
				if err != nil {
					return err
				}
				return printNotes(stdout(cmd), notes)
			}),
		},
		{
			Name:      "search",
			Usage:     "Find notes by title fragment, or by words in title and body with --text",
			ArgsUsage: "<text>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "text", Usage: "Match every word against titles and bodies"},
			},
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				q, err := textArgs(cmd, 0)
				if err != nil {
					return err
				}
				if q == "" {
					return errors.New("search text is required")
				}
				if cmd.Bool("text") {
					hits, err := svc.SearchText(ctx, q, 0)
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tTITLE\tSNIPPET")
					for _, h := range hits {
						fmt.Fprintf(tw, "%d\t%s\t%s\n", h.ID, h.Title, strings.ReplaceAll(h.Snippet, "\n", " "))
					}
					return tw.Flush()
				}
				notes, err := svc.Search(ctx, q, 0)
				if err != nil {
					return err
				}
				return printNotes(stdout(cmd), notes)
			}),
		},
		{
			Name:      "show",
			Usage:     "Print a note as JSON",
			ArgsUsage: "<id>",
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				id, err := noteID(cmd)
				if err != nil {
					return err
				}
				note, err := svc.GetNote(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(stdout(cmd), note)
			}),
		},
		{
			Name:      "new",
			Usage:     "Create a note; the title is derived from the body unless given",
			ArgsUsage: "<body...|->",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Usage: "Note title"},
			},
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				body, err := textArgs(cmd, 0)
				if err != nil {
					return err
				}
				s, err := svc.OpenInsert(ctx)
				if err != nil {
					return err
				}
				if err := s.SetBody(body); err != nil {
					return err
				}
				if err := s.SetTitle(cmd.String("title")); err != nil {
					return err
				}
				return finish(ctx, stdout(cmd), s)
			}),
		},
		{
			Name:  "paste",
			Usage: "Create a note from the system clipboard",
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				s, err := svc.OpenPaste(ctx, clipboard.NewSystem(svc.Resolver()))
				if err != nil {
					return err
				}
				return finish(ctx, stdout(cmd), s)
			}),
		},
		{
			Name:      "edit",
			Usage:     "Replace the body and/or title of a note; an empty body deletes it",
			ArgsUsage: "<id> [body...|-]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Usage: "New title"},
			},
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				id, err := noteID(cmd)
				if err != nil {
					return err
				}
				s, err := svc.OpenEdit(ctx, id)
				if err != nil {
					return err
				}
				if cmd.Args().Len() > 1 {
					body, err := textArgs(cmd, 1)
					if err != nil {
						return err
					}
					if err := s.SetBody(body); err != nil {
						return err
					}
				}
				if cmd.IsSet("title") {
					if err := s.SetTitle(cmd.String("title")); err != nil {
						return err
					}
				}
				return finish(ctx, stdout(cmd), s)
			}),
		},
		{
			Name:      "delete",
			Usage:     "Delete a note",
			ArgsUsage: "<id>",
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				id, err := noteID(cmd)
				if err != nil {
					return err
				}
				return svc.DeleteNote(ctx, id)
			}),
		},
		{
			Name:      "assign",
			Usage:     "Move a note into a category; no name clears it",
			ArgsUsage: "<id> [category]",
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				id, err := noteID(cmd)
				if err != nil {
					return err
				}
				name, err := textArgs(cmd, 1)
				if err != nil {
					return err
				}
				note, err := svc.AssignCategory(ctx, id, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout(cmd), "%s\t%s\n", note.URI, note.Category)
				return nil
			}),
		},
		{
			Name:      "type",
			Usage:     "Print the MIME type of a content address",
			ArgsUsage: "<content://...>",
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				addr, err := svc.Resolver().Parse(cmd.Args().First())
				if err != nil {
					return err
				}
				mime, err := svc.Store().Type(addr)
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout(cmd), mime)
				return nil
			}),
		},
		{
			Name:      "export",
			Usage:     "Write a note body to a file in the documents directory",
			ArgsUsage: "<id> <dest>",
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				id, err := noteID(cmd)
				if err != nil {
					return err
				}
				return svc.Export(ctx, id, cmd.Args().Get(1))
			}),
		},
		{
			Name:      "import",
			Usage:     "Create notes from a document, or every document under a directory",
			ArgsUsage: "<path>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "dir", Usage: "Treat path as a directory"},
			},
			Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
				path := cmd.Args().First()
				if !cmd.Bool("dir") {
					note, err := svc.Import(ctx, path)
					if err != nil {
						return err
					}
					return printNotes(stdout(cmd), []models.Note{*note})
				}
				notes, err := svc.ImportAll(ctx, path)
				if err != nil {
					return err
				}
				return printNotes(stdout(cmd), notes)
			}),
		},
		categoryCommand(),
	}
}

func categoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "category",
		Usage: "Manage categories",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List categories with note counts",
				ArgsUsage: "[glob]",
				Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
					cats, err := svc.ListCategories(ctx, cmd.Args().First())
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tNOTES")
					for _, c := range cats {
						fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", c.ID, c.Name, c.Color, c.Count)
					}
					return tw.Flush()
				}),
			},
			{
				Name:      "create",
				Usage:     "Create a category",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "color", Usage: "#RGB, #RRGGBB or #AARRGGBB"},
				},
				Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
					name, err := textArgs(cmd, 0)
					if err != nil {
						return err
					}
					cat, err := svc.CreateCategory(ctx, name, cmd.String("color"))
					if err != nil {
						return err
					}
					fmt.Fprintf(stdout(cmd), "%s\t%s\n", cat.URI, cat.Name)
					return nil
				}),
			},
			{
				Name:      "rename",
				Usage:     "Rename a category; its notes follow",
				ArgsUsage: "<id> <name>",
				Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
					id, err := strconv.ParseInt(cmd.Args().First(), 10, 64)
					if err != nil {
						return fmt.Errorf("expected a category id, got %q", cmd.Args().First())
					}
					name, err := textArgs(cmd, 1)
					if err != nil {
						return err
					}
					_, err = svc.UpdateCategory(ctx, id, name, "")
					return err
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a category and clear it from its notes",
				ArgsUsage: "<id>",
				Action: withService(func(ctx context.Context, cmd *cli.Command, svc *noteservice.Service) error {
					id, err := strconv.ParseInt(cmd.Args().First(), 10, 64)
					if err != nil {
						return fmt.Errorf("expected a category id, got %q", cmd.Args().First())
					}
					return svc.DeleteCategory(ctx, id)
				}),
			},
		},
	}
}
