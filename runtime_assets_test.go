package talweb

import (
	"io/fs"
	"strings"
	"testing"
)

func TestRuntimeAssetsFSContainsRuntimeScript(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), RuntimeScript)
	if err != nil {
		t.Fatalf("expected runtime script to be readable: %v", err)
	}
	for _, fn := range []string{"dynamicOnLoad", "dynamicHandlerAttach", "dynamicTitleAttach", "dynamicFieldAttach_"} {
		if !strings.Contains(string(data), fn) {
			t.Fatalf("expected runtime script to define %s", fn)
		}
	}
}
