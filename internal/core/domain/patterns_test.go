package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/bale/internal/core/domain"
)

func TestTriggerPatterns(t *testing.T) {
	t.Parallel()

	t.Run("module syntax", func(t *testing.T) {
		t.Parallel()
		assert.True(t, domain.HasModuleSyntax(`import a from "./a";`))
		assert.True(t, domain.HasModuleSyntax(`const b = require("./b");`))
		assert.True(t, domain.HasModuleSyntax(`export { c } from "./c";`))
		assert.False(t, domain.HasModuleSyntax(`console.log("imports are strings here")`))
		assert.False(t, domain.HasModuleSyntax(`var x = 1;`))
	})

	t.Run("env read", func(t *testing.T) {
		t.Parallel()
		assert.True(t, domain.HasEnvRead(`if (process.env.NODE_ENV === "production") {}`))
		assert.False(t, domain.HasEnvRead(`var env = {};`))
	})

	t.Run("node globals", func(t *testing.T) {
		t.Parallel()
		assert.True(t, domain.HasNodeGlobal(`console.log(__dirname);`))
		assert.True(t, domain.HasNodeGlobal(`Buffer.from("x");`))
		assert.False(t, domain.HasNodeGlobal(`var processor = 1;`))
	})

	t.Run("file read", func(t *testing.T) {
		t.Parallel()
		assert.True(t, domain.HasFileRead(`fs.readFileSync("./data.json");`))
		assert.False(t, domain.HasFileRead(`fs.readFile("./data.json", cb);`))
	})

	t.Run("service worker", func(t *testing.T) {
		t.Parallel()
		assert.True(t, domain.HasServiceWorker(`navigator.serviceWorker.register("/sw.js");`))
		assert.True(t, domain.HasServiceWorker("navigator . serviceWorker . register('/sw.js')"))
		assert.False(t, domain.HasServiceWorker(`navigator.registerProtocolHandler("web+x", "/x");`))
	})

	t.Run("worker", func(t *testing.T) {
		t.Parallel()
		assert.True(t, domain.HasWorker(`new Worker("./w.js");`))
		assert.True(t, domain.HasWorker(`new SharedWorker("./w.js");`))
		assert.False(t, domain.HasWorker(`workerPool.submit(job);`))
	})
}

func TestNodeGlobals(t *testing.T) {
	t.Parallel()

	src := `console.log(__dirname, process.pid, __dirname, Buffer.from("x"));`
	assert.Equal(t, []string{"__dirname", "process", "Buffer"}, domain.NodeGlobals(src))

	assert.Nil(t, domain.NodeGlobals("var x = 1;"))
}

func TestMightNeedTree(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.MightNeedTree(`import a from "./a";`))
	assert.True(t, domain.MightNeedTree(`new Worker("./w.js");`))
	assert.True(t, domain.MightNeedTree(`process.env.DEBUG`))
	assert.False(t, domain.MightNeedTree(`console.log("hello");`))
	assert.False(t, domain.MightNeedTree(""))
}
