// Package config loads the mumu.json configuration of a served document.
//
// # Configuration File Structure
//
//	{
//	  "template": {
//	    "file": "index.html",
//	    "url": "s3://site/templates/patterns.html"
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000
//	  },
//	  "frameInterval": "16ms",
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "mumulib"
//	  },
//	  "watch": {
//	    "enabled": true,
//	    "debounce": "100ms"
//	  },
//	  "state": {
//	    "person1": {"name": "Jane Smith", "age": "12"}
//	  }
//	}
//
// "template.file" is the page served as the live document and the baseline
// for pattern lookups. "template.url", when set, is an alternate pattern
// source fetched on every lookup.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
