package talweb

import (
	"embed"
	"io/fs"
)

// RuntimeScript is the name of the client runtime the script target's
// output calls into.
const RuntimeScript = "talweb-dynamic.js"

//go:embed assets/*.js
var embeddedRuntimeAssets embed.FS

// RuntimeAssetsFS exposes the client runtime so applications can serve it
// next to script target output.
//
// Typical mount:
//
//	mux.Handle("/runtime/",
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(talweb.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "assets")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
