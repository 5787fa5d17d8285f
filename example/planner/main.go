package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tbxark/planagent/form"
	"github.com/tbxark/planagent/gateway"
	"github.com/tbxark/planagent/planner"
	"github.com/tbxark/planagent/records"
	"github.com/tbxark/planagent/schedule"
	"github.com/tbxark/planagent/template"
)

func main() {
	gatewayURL := flag.String("gateway", "http://localhost:8000", "generation gateway base URL")
	user := flag.String("user", "local", "user id for cache and record scoping")
	cacheDir := flag.String("cache", ".planagent", "local cache directory")
	eventType := flag.String("event", "Company Retreat", "event type template")
	redisAddr := flag.String("redis", "", "redis address for saved plans, e.g. localhost:6379 (in-memory when empty)")
	flag.Parse()

	tpl, ok := template.ByEventType(*eventType)
	if !ok {
		log.Fatalf("unknown event type %q, available: %s", *eventType, strings.Join(template.EventTypes(), ", "))
	}

	var recordStore records.Store = records.NewMemoryStore()
	if *redisAddr != "" {
		recordStore = records.NewRedisStore(redis.NewClient(&redis.Options{Addr: *redisAddr}))
	}

	session := planner.NewSession(
		*user,
		tpl,
		planner.FileStores(*cacheDir),
		gateway.NewClient(*gatewayURL),
		recordStore,
	)
	ctx := context.Background()
	session.Restore(ctx)

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("Planning a %s. Press enter to keep a saved answer.\n", tpl.EventType)
	if err := runForm(ctx, session, reader); err != nil {
		log.Fatalf("form: %v", err)
	}
	if err := runScheduleLoop(ctx, session, reader); err != nil {
		log.Fatalf("schedule: %v", err)
	}
}

func runForm(ctx context.Context, session *planner.Session, reader *bufio.Reader) error {
	for {
		step := session.CurrentStep()
		fmt.Printf("\n== Step %d/%d: %s ==\n", session.Step()+1, session.StepLen(), step.Name)
		for _, field := range session.FieldsForCurrentStep() {
			if err := askField(ctx, session, reader, field); err != nil {
				return err
			}
		}
		if session.Step() == session.StepLen()-1 {
			return nil
		}
		session.Next()
	}
}

func askField(ctx context.Context, session *planner.Session, reader *bufio.Reader, field template.Field) error {
	hint := field.Placeholder
	if len(field.Options) > 0 {
		hint = strings.Join(field.Options, " / ")
	}
	if hint != "" {
		fmt.Printf("%s (%s): ", field.Label, hint)
	} else {
		fmt.Printf("%s: ", field.Label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	value, err := parseAnswer(field, line)
	if err != nil {
		fmt.Printf("  %v, keeping previous answer\n", err)
		return nil
	}
	return session.SetResponse(ctx, field.ID, value)
}

func parseAnswer(field template.Field, line string) (any, error) {
	switch field.Kind {
	case template.KindNumber:
		n, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", line)
		}
		return n, nil
	case template.KindBoolean:
		switch strings.ToLower(line) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
		return nil, fmt.Errorf("answer yes or no")
	case template.KindMultiSelect:
		parts := strings.Split(line, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	case template.KindDateRange:
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("expected two dates, e.g. 2025-10-12 2025-10-14")
		}
		start, err := time.Parse("2006-01-02", fields[0])
		if err != nil {
			return nil, fmt.Errorf("bad start date: %q", fields[0])
		}
		end, err := time.Parse("2006-01-02", fields[1])
		if err != nil {
			return nil, fmt.Errorf("bad end date: %q", fields[1])
		}
		return form.DateRange{Start: &start, End: &end}, nil
	default:
		return line, nil
	}
}

func runScheduleLoop(ctx context.Context, session *planner.Session, reader *bufio.Reader) error {
	fmt.Println("\nCommands: generate | show | regen <day> <activity> [prompt] | edit <day> <activity> | save | list | load <id> | delete <id> | new | quit")
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		args := strings.Fields(strings.TrimSpace(line))
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "generate":
			sched, gErr := session.Generate(ctx)
			if gErr != nil {
				fmt.Printf("generation failed: %v\n", gErr)
				continue
			}
			fmt.Printf("\n%s\n", sched.PlainText())
		case "show":
			fmt.Printf("\n%s\n", session.PlainText())
		case "regen":
			if len(args) < 3 {
				fmt.Println("usage: regen <day> <activity> [prompt]")
				continue
			}
			day, actIdx, pErr := parseIndices(args[1], args[2])
			if pErr != nil {
				fmt.Println(pErr)
				continue
			}
			act, rErr := session.RegenerateActivity(ctx, day, actIdx, strings.Join(args[3:], " "))
			if rErr != nil {
				fmt.Printf("regenerate failed: %v\n", rErr)
				continue
			}
			fmt.Printf("updated: %s: %s (%s)\n", act.Time, act.Title, act.Notes)
		case "edit":
			if len(args) != 3 {
				fmt.Println("usage: edit <day> <activity>")
				continue
			}
			day, actIdx, pErr := parseIndices(args[1], args[2])
			if pErr != nil {
				fmt.Println(pErr)
				continue
			}
			if eErr := editActivity(ctx, session, reader, day, actIdx); eErr != nil {
				fmt.Printf("edit failed: %v\n", eErr)
			}
		case "save":
			rec, sErr := session.Save(ctx)
			if sErr != nil {
				fmt.Printf("save failed: %v\n", sErr)
				continue
			}
			fmt.Printf("saved as %s\n", rec.ID)
		case "list":
			recs, lErr := session.SavedPlans(ctx)
			if lErr != nil {
				fmt.Printf("list failed: %v\n", lErr)
				continue
			}
			for _, rec := range recs {
				fmt.Printf("%s  %s  %s\n", rec.ID, rec.CreatedAt.Format(time.RFC3339), rec.EventType)
			}
		case "load":
			if len(args) != 2 {
				fmt.Println("usage: load <id>")
				continue
			}
			if lErr := session.LoadRecord(ctx, args[1]); lErr != nil {
				fmt.Printf("load failed: %v\n", lErr)
				continue
			}
			fmt.Printf("\n%s\n", session.PlainText())
		case "delete":
			if len(args) != 2 {
				fmt.Println("usage: delete <id>")
				continue
			}
			if dErr := session.DeleteRecord(ctx, args[1]); dErr != nil {
				fmt.Printf("delete failed: %v\n", dErr)
			}
		case "new":
			if rErr := session.Reset(ctx); rErr != nil {
				fmt.Printf("reset failed: %v\n", rErr)
				continue
			}
			if fErr := runForm(ctx, session, reader); fErr != nil {
				return fErr
			}
		case "quit":
			return nil
		default:
			fmt.Printf("unknown command %q\n", args[0])
		}
	}
}

func parseIndices(dayArg, actArg string) (int, int, error) {
	day, err := strconv.Atoi(dayArg)
	if err != nil {
		return 0, 0, fmt.Errorf("bad day index %q", dayArg)
	}
	act, err := strconv.Atoi(actArg)
	if err != nil {
		return 0, 0, fmt.Errorf("bad activity index %q", actArg)
	}
	return day, act, nil
}

func editActivity(ctx context.Context, session *planner.Session, reader *bufio.Reader, day, actIdx int) error {
	read := func(label string) (string, error) {
		fmt.Printf("%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	timeStr, err := read("time")
	if err != nil {
		return err
	}
	title, err := read("title")
	if err != nil {
		return err
	}
	notes, err := read("notes")
	if err != nil {
		return err
	}
	return session.EditActivity(ctx, day, actIdx, schedule.Activity{Time: timeStr, Title: title, Notes: notes})
}
