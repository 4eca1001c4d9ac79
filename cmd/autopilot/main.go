// Command autopilot completes the incomplete lessons of a Weiban safety
// course behind a manually authenticated browser session. It opens the
// platform, waits for the operator to log in, walks every module in
// order, and prints a summary of what it completed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Guoweix/bistu-edu-safety-automation/pkg/config"
	"github.com/Guoweix/bistu-edu-safety-automation/pkg/course"
	"github.com/Guoweix/bistu-edu-safety-automation/pkg/logging"
	"github.com/Guoweix/bistu-edu-safety-automation/pkg/report"
	"github.com/Guoweix/bistu-edu-safety-automation/pkg/session"
)

const version = "0.1.0"

type cliFlags struct {
	configPath   string
	headless     bool
	loginTimeout time.Duration
	stateFile    string
	screenshot   string
	showVersion  bool
}

func main() {
	flags := parseFlags()
	if flags.showVersion {
		fmt.Printf("autopilot v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping after the current module...")
		cancel()
	}()

	if err := run(ctx, flags); err != nil {
		fmt.Fprintf(os.Stderr, "autopilot: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *cliFlags {
	flags := &cliFlags{}
	flag.StringVar(&flags.configPath, "config", "", "Path to YAML configuration file")
	flag.BoolVar(&flags.headless, "headless", false, "Run the browser without a window (login must already be scripted)")
	flag.DurationVar(&flags.loginTimeout, "login-timeout", 0, "Override the manual login timeout (e.g. 3m)")
	flag.StringVar(&flags.stateFile, "state", "", "Override the browser state dump path")
	flag.StringVar(&flags.screenshot, "screenshot", "", "Save a full-page screenshot after login to this path")
	flag.BoolVar(&flags.showVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "autopilot - Weiban course completion walker\n\n")
		fmt.Fprintf(os.Stderr, "Usage: autopilot [options]\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	return flags
}

func run(ctx context.Context, flags *cliFlags) error {
	engineCfg, sessCfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.headless {
		sessCfg.Headless = true
	}
	if flags.loginTimeout > 0 {
		sessCfg.LoginTimeout = config.Duration(flags.loginTimeout)
	}
	if flags.stateFile != "" {
		sessCfg.StateFile = flags.stateFile
	}
	if flags.screenshot != "" {
		sessCfg.ScreenshotFile = flags.screenshot
	}

	log, err := logging.NewLogger("autopilot")
	if err != nil {
		fmt.Fprintf(os.Stderr, "file logging unavailable, using stderr: %v\n", err)
	}
	defer log.Close()
	if p := log.LogPath(); p != "" {
		fmt.Printf("Run log: %s\n", p)
	}

	sess, err := session.Launch(session.Options{
		Headless:       sessCfg.Headless,
		ViewportWidth:  sessCfg.ViewportWidth,
		ViewportHeight: sessCfg.ViewportHeight,
		UserAgent:      sessCfg.UserAgent,
		Locale:         sessCfg.Locale,
		LoginTimeout:   sessCfg.LoginTimeout.Std(),
	}, log)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Goto(engineCfg.Platform.BaseURL); err != nil {
		return err
	}

	fmt.Println("Please log in to the platform in the browser window.")
	if err := sess.WaitForLogin(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	fmt.Println("Login detected.")

	if sessCfg.ScreenshotFile != "" {
		if err := sess.Screenshot(sessCfg.ScreenshotFile); err != nil {
			log.Warnf("screenshot: %v", err)
		}
	}

	page := sess.Page()

	nav := course.NewNavigator(page, engineCfg, log)
	if err := nav.EnterCourse(ctx); err != nil {
		return fmt.Errorf("entering course: %w", err)
	}

	controller, err := course.NewTraversalController(page, engineCfg, log)
	if err != nil {
		return err
	}

	result, runErr := controller.Run(ctx)

	// The summary is printed even when the run died partway.
	fmt.Println()
	fmt.Print(report.NewRenderer().Summary(result))

	if sessCfg.StateFile != "" {
		if err := sess.SaveState(sessCfg.StateFile); err != nil {
			log.Warnf("state dump: %v", err)
		}
	}

	return runErr
}
