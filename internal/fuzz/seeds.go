package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
)

var inlineSeeds = []string{
	"",
	`info!("Unready");`,
	`log::warn!(ref = 7; "Retrying");`,
	`error!(target: "db", attempt = n + 1, err:% = e; "[ref: 3] Failure {}", x);`,
	"// logref:ignore\ninfo!(\"skipped\");",
	"/* /* nested */ info!(\"x\") */ debug!(r#\"raw \"q\"\"#);",
	`let c = '"'; trace!("after char"); fn f<'a>(s: &'a str) {}`,
	`info!("unterminated`,
	`info!(a = foo(1,`,
	`info!("\u{1F600} \x41 \
	     continued");`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.rs файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".rs" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
