package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jmaren/inkwell"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Site secrets and overrides live in .env during local work; absence is
	// not an error.
	_ = godotenv.Load()

	switch os.Args[1] {
	case "build":
		if err := runBuild(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: inkwell new <site-name>")
			os.Exit(1)
		}
		if err := runNew(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("inkwell %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "site.yml", "site configuration file")
	strict := fs.Bool("strict", false, "fail the build on broken internal links")
	noCache := fs.Bool("no-cache", false, "re-render every post, ignoring the render cache")
	fs.Parse(args)

	cfg, err := inkwell.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	cache, err := inkwell.OpenRenderCache(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open render cache: %w", err)
	}
	defer cache.Close()

	res, err := inkwell.NewBuilder(cfg, cache).Build(inkwell.BuildOptions{
		Strict:  *strict,
		NoCache: *noCache,
	})
	if err != nil {
		return err
	}

	log.Printf("built %d pages (%d fragments reused), copied %d assets (%d images resized) in %s",
		res.PagesBuilt, res.FragmentsReused, res.AssetsCopied, res.ImagesResized, res.Duration.Round(time.Millisecond))
	if len(res.Warnings) > 0 {
		log.Printf("%d link warning(s); run with -strict to fail on these", len(res.Warnings))
	}
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "site.yml", "site configuration file")
	addr := fs.String("addr", "", "listen address (overrides config)")
	preview := fs.Bool("preview", false, "render pages from source per request")
	drafts := fs.Bool("drafts", false, "expose drafts behind a login (implies -preview)")
	fs.Parse(args)

	cfg, err := inkwell.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	var opts []inkwell.Option
	if *preview {
		opts = append(opts, inkwell.WithPreview())
	}
	if *drafts {
		opts = append(opts, inkwell.WithDrafts())
	}
	return inkwell.New(cfg, opts...).Start()
}

func printUsage() {
	fmt.Println(`inkwell - a personal blog compiler: Markdown in, static site out

Usage:
  inkwell <command> [arguments]

Commands:
  build         Compile content/ into the static output tree
  serve         Serve the generated site (or -preview to render from source)
  new <name>    Create a new inkwell site
  version       Print the inkwell version
  help          Show this help message

Examples:
  inkwell build -strict
  inkwell serve -addr :8080
  inkwell serve -preview -drafts
  inkwell new myblog`)
}
