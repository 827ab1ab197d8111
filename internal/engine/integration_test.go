package engine

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests exercise the engine against a real JDK and skip when one is
// not installed, the same way the container-backed tests in this codebase
// skip without a Docker daemon.

func requireJDK(t *testing.T) (javac, java string) {
	t.Helper()
	javac, err := exec.LookPath("javac")
	if err != nil {
		t.Skipf("javac not available: %v", err)
	}
	java, err = exec.LookPath("java")
	if err != nil {
		t.Skipf("java not available: %v", err)
	}
	return javac, java
}

func TestIntegrationHelloWorld(t *testing.T) {
	javac, java := requireJDK(t)
	e := newTestEngine(t, Config{JavacPath: javac, JavaPath: java})

	res, err := e.Evaluate(context.Background(), `public class Main {
    public static void main(String[] args) {
        System.out.println("Hello!");
    }
}`)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "Hello!", res.Output)
}

func TestIntegrationMissingSemicolon(t *testing.T) {
	javac, java := requireJDK(t)
	e := newTestEngine(t, Config{JavacPath: javac, JavaPath: java})

	res, err := e.Evaluate(context.Background(), `public class Main {
    public static void main(String[] args) {
        System.out.println("Oops")
    }
}`)
	require.NoError(t, err)
	assert.Equal(t, StatusCompilationError, res.Status)
	assert.NotEmpty(t, res.ErrorMessage)
	require.NotNil(t, res.LineNumber)
	assert.Equal(t, 3, *res.LineNumber)
}

func TestIntegrationDivisionByZero(t *testing.T) {
	javac, java := requireJDK(t)
	e := newTestEngine(t, Config{JavacPath: javac, JavaPath: java})

	res, err := e.Evaluate(context.Background(), `public class Main {
    public static void main(String[] args) {
        int x = 1 / 0;
        System.out.println(x);
    }
}`)
	require.NoError(t, err)
	assert.Equal(t, StatusRuntimeError, res.Status)
	assert.Equal(t, "ArithmeticException", res.ExceptionType)
	require.NotNil(t, res.LineNumber)
	assert.Equal(t, 3, *res.LineNumber)
}

func TestIntegrationInfiniteLoop(t *testing.T) {
	javac, java := requireJDK(t)
	e := newTestEngine(t, Config{
		JavacPath:      javac,
		JavaPath:       java,
		ExecuteTimeout: 2 * time.Second,
	})

	start := time.Now()
	res, err := e.Evaluate(context.Background(), `public class Main {
    public static void main(String[] args) {
        while (true) {}
    }
}`)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, StatusTimeout, res.Status)
	assert.Less(t, elapsed, 20*time.Second)
}
