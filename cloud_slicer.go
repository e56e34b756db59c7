package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/mogaika/cloud_slicer/arrows"
	"github.com/mogaika/cloud_slicer/cloud/pcd"
	"github.com/mogaika/cloud_slicer/config"
	"github.com/mogaika/cloud_slicer/session"
	"github.com/mogaika/cloud_slicer/web"
)

func main() {
	var addr, cfgpath, pcdpath, webdir, handlesgltf string
	flag.StringVar(&addr, "i", "", "Address of server (overrides config)")
	flag.StringVar(&cfgpath, "config", "", "Path to yaml config")
	flag.StringVar(&pcdpath, "pcd", "", "Point cloud file to open at startup")
	flag.StringVar(&webdir, "web", "", "Path to web viewer files (overrides config)")
	flag.StringVar(&handlesgltf, "handles", "", "Path to gltf with handle markers (overrides config)")
	flag.Parse()

	if cfgpath != "" {
		if err := config.Load(cfgpath); err != nil {
			log.Fatal(err)
		}
	}
	cfg := config.Current()
	if addr == "" {
		addr = cfg.Web.Addr
	}
	if webdir == "" {
		webdir = cfg.Web.Dir
	}
	if handlesgltf == "" {
		handlesgltf = cfg.Assets.Handles
	}

	assets := arrows.LoadOrFallback(handlesgltf)

	sessions := session.NewManager()
	if pcdpath != "" {
		f, err := os.Open(pcdpath)
		if err != nil {
			log.Fatal(err)
		}
		pc, err := pcd.Decode(f)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
		s := sessions.Create(filepath.Base(pcdpath), pc)
		log.Printf("[main] Loaded %q: %v points, session %v", pcdpath, pc.Count(), s.ID)
	}

	if err := web.StartServer(addr, sessions, assets, webdir); err != nil {
		log.Fatal(err)
	}
}
