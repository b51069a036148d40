package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func popup(id, start, end, action string) string {
	return `<annotation id="` + id + `" type="text" style="popup"><TEXT>` + id + `</TEXT>` + action +
		`<segment><movingRegion type="rect">` +
		`<rectRegion x="10.0" y="20.0" w="30.0" h="5.0" t="` + start + `"/>` +
		`<rectRegion x="10.0" y="20.0" w="30.0" h="5.0" t="` + end + `"/>` +
		`</movingRegion></segment>` +
		`<appearance bgAlpha="0.8" bgColor="16777215" effects="" fgColor="1710618" textSize="3.6"/></annotation>`
}

func singleRegion(id, start string) string {
	return `<annotation id="` + id + `" type="text" style="popup"><TEXT>` + id + `</TEXT>` +
		`<segment><movingRegion type="rect">` +
		`<rectRegion x="10.0" y="20.0" w="30.0" h="5.0" t="` + start + `"/>` +
		`</movingRegion></segment>` +
		`<appearance bgAlpha="0.8" bgColor="16777215" effects="" fgColor="1710618" textSize="3.6"/></annotation>`
}

func jump(target string) string {
	return `<action type="openUrl" trigger="click"><url target="current" value="` + target + `"/></action>`
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func writeDoc(t *testing.T, dir, name string, annotations ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	doc := "<document><annotations>" + strings.Join(annotations, "") + "</annotations></document>"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func writeRaw(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
