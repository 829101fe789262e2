package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/kairoplan/kairoplan/internal/app"
	"github.com/kairoplan/kairoplan/internal/config"
	"github.com/kairoplan/kairoplan/internal/utils"
	"github.com/kairoplan/kairoplan/pkg/calendar"
	"github.com/kairoplan/kairoplan/pkg/export"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// NewApp builds the kairoplan command line. Without a command it serves the
// HTTP API.
func NewApp() *cli.App {
	return NewAppWithClock(utils.SystemClock{})
}

// NewAppWithClock is NewApp with the clock used for export timestamps.
func NewAppWithClock(clock utils.Clock) *cli.App {
	return &cli.App{
		Name:  "kairoplan",
		Usage: "Calendar with bundled and personal events.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   config.DefaultPath,
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"KAIROPLAN_CONFIG"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			serveCommand(),
			listCommand(),
			addCommand(),
			deleteCommand(),
			exportCommand(clock),
			importCommand(),
		},
	}
}

// withApplication opens the application for the duration of fn.
func withApplication(c *cli.Context, fn func(*app.Application) error) error {
	application, err := app.NewApplication(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Errorf("failed to close storage: %v", err)
		}
	}()
	return fn(application)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the HTTP API (default).",
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	return withApplication(c, func(application *app.Application) error {
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return application.Run(ctx)
	})
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List events, optionally for one day, hour or month.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "day in YYYY-MM-DD format"},
			&cli.IntFlag{Name: "hour", Value: -1, Usage: "hour bucket 0-23, requires --date"},
			&cli.StringFlag{Name: "month", Usage: "month in YYYY-MM format"},
			&cli.StringSliceFlag{Name: "hide", Usage: "event types to hide"},
			&cli.StringSliceFlag{Name: "type", Usage: "only show these event types"},
		},
		Action: func(c *cli.Context) error {
			return withApplication(c, func(application *app.Application) error {
				events, err := query(c, application.Store().List())
				if err != nil {
					return err
				}
				return printEvents(c.App.Writer, calendar.SortByStart(events))
			})
		},
	}
}

func query(c *cli.Context, events []calendar.Event) ([]calendar.Event, error) {
	filter := calendar.DefaultFilter()
	for _, t := range c.StringSlice("hide") {
		filter = filter.SetVisible(calendar.Type(strings.ToLower(t)), false)
	}
	for _, t := range c.StringSlice("type") {
		filter.Include = append(filter.Include, calendar.Type(strings.ToLower(t)))
	}
	events = filter.Apply(events)

	if raw := c.String("date"); raw != "" {
		date, err := calendar.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		hour := c.Int("hour")
		if hour < 0 {
			return calendar.EventsOn(events, date), nil
		}
		if hour > 23 {
			return nil, fmt.Errorf("hour must be between 0 and 23, got %d", hour)
		}
		return calendar.EventsAt(events, date, hour), nil
	}
	if raw := c.String("month"); raw != "" {
		month, err := time.Parse("2006-01", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q: %w", raw, err)
		}
		return calendar.EventsIn(events, month.Year(), month.Month()), nil
	}
	return events, nil
}

func printEvents(out io.Writer, events []calendar.Event) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	byDay := make(map[calendar.Date][]calendar.Event)
	for _, e := range events {
		byDay[e.Date] = append(byDay[e.Date], e)
	}
	for _, e := range events {
		marks := ""
		if e.Predefined {
			marks += "*"
		}
		if calendar.HasConflict(byDay[e.Date], e) {
			marks += "!"
		}
		fmt.Fprintf(w, "%s\t%s\t%s-%s\t%s\t%s\t%s\n", e.ID, e.Date, e.StartTime, e.EndTime, e.Type, e.Title, marks)
	}
	return w.Flush()
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a personal event.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Required: true},
			&cli.StringFlag{Name: "type", Usage: "event type, personal when omitted"},
			&cli.StringFlag{Name: "date", Required: true, Usage: "YYYY-MM-DD"},
			&cli.StringFlag{Name: "start", Required: true, Usage: "HH:mm"},
			&cli.StringFlag{Name: "end", Required: true, Usage: "HH:mm"},
		},
		Action: func(c *cli.Context) error {
			return withApplication(c, func(application *app.Application) error {
				input, err := calendar.NewUserInput(calendar.EventForm{
					Title:     c.String("title"),
					Type:      strings.ToLower(c.String("type")),
					Date:      c.String("date"),
					StartTime: c.String("start"),
					EndTime:   c.String("end"),
				}, application.Config().Location())
				if err != nil {
					return err
				}
				event, err := application.Store().Add(input)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(c.App.Writer, event.ID)
				return err
			})
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a personal event.",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return errors.New("event id is required")
			}
			return withApplication(c, func(application *app.Application) error {
				return application.Store().Delete(id)
			})
		},
	}
}

func exportCommand(clock utils.Clock) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export events as iCalendar or CSV.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: "ics", Usage: "ics or csv"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "file to write, stdout when omitted"},
		},
		Action: func(c *cli.Context) error {
			return withApplication(c, func(application *app.Application) error {
				events := calendar.SortByStart(application.Store().List())

				var out string
				switch strings.ToLower(c.String("format")) {
				case "ics":
					out = export.ICS(events, clock.Now())
				case "csv":
					var err error
					if out, err = export.CSV(events); err != nil {
						return err
					}
				default:
					return fmt.Errorf("unknown export format %q", c.String("format"))
				}

				if path := c.String("output"); path != "" {
					return os.WriteFile(path, []byte(out), 0o644)
				}
				_, err := io.WriteString(c.App.Writer, out)
				return err
			})
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import events from an iCalendar file.",
		ArgsUsage: "<file.ics>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return errors.New("iCalendar file is required")
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			inputs, err := export.ParseICS(f)
			if err != nil {
				return err
			}
			return withApplication(c, func(application *app.Application) error {
				imported := importInputs(application.Store(), inputs)
				_, err := fmt.Fprintf(c.App.Writer, "imported %d of %d events\n", imported, len(inputs))
				return err
			})
		},
	}
}

func importInputs(store *calendar.Store, inputs []calendar.UserInput) int {
	imported := 0
	for _, input := range inputs {
		if _, err := store.Add(input); err != nil {
			log.Warnf("skipping %q: %v", input.Title, err)
			continue
		}
		imported++
	}
	return imported
}
