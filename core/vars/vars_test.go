package vars

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleCopyEnv() {
	env := NewMapEnv()
	CopyEnv(env, []string{"A=B", "C=D", "E", "F=G=H"})

	fmt.Printf("Environ(): %q\n", env.Environ())
	fmt.Printf("Getenv(\"F\"): %q\n", env.Getenv("F"))

	// Output: Environ(): ["A=B" "C=D" "E=" "F=G=H"]
	// Getenv("F"): "G=H"
}

func ExampleNewMapEnvFromEnvList() {
	env := NewMapEnvFromEnvList([]string{"Z=1", "A=2"})

	fmt.Printf("Environ(): %q\n", env.Environ())

	// Output: Environ(): ["A=2" "Z=1"]
}

func ExampleMapEnv_Unsetenv() {
	env := NewMapEnv()
	env.Setenv("A", "B")
	env.Setenv("C", "D")

	fmt.Println("Before:", env.Environ())
	env.Unsetenv("A")
	fmt.Println("After:", env.Environ())

	// Output: Before: [A=B C=D]
	// After: [C=D]
}

func ExampleStore() {
	store := NewStore()
	store.Set("greeting", "hello")
	store.Set("empty", "")

	fmt.Println(store.Names())
	fmt.Println(store.IsSet("empty"), store.IsSet("missing"))
	fmt.Printf("%q\n", store.Get("greeting"))

	// Output: [empty greeting]
	// true false
	// "hello"
}

func TestMapEnv_Setenv(t *testing.T) {
	env := NewMapEnv()

	assert.Error(t, env.Setenv("", "x"))
	assert.Error(t, env.Setenv("A=B", "x"))
	require.NoError(t, env.Setenv("A", "x=y"))

	val, ok := env.LookupEnv("A")
	assert.True(t, ok)
	assert.Equal(t, "x=y", val)
}

func TestMapEnv_zeroValue(t *testing.T) {
	var env MapEnv

	assert.NoError(t, env.Unsetenv("missing"))
	assert.Empty(t, env.Environ())

	_, ok := env.LookupEnv("missing")
	assert.False(t, ok)
}

func TestStore_Unset(t *testing.T) {
	var store Store

	assert.False(t, store.Unset("a"))

	store.Set("a", "1")
	assert.True(t, store.Unset("a"))
	assert.False(t, store.IsSet("a"))
	assert.Equal(t, "", store.Get("a"))
}

func TestStore_Clone(t *testing.T) {
	store := NewStore()
	store.Set("a", "1")

	clone := store.Clone()
	clone.Set("a", "2")
	clone.Set("b", "3")

	assert.Equal(t, "1", store.Get("a"))
	assert.False(t, store.IsSet("b"))
	assert.Equal(t, []string{"a", "b"}, clone.Names())
}

func TestStore_concurrent(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("v%d", i)
			store.Set(name, name)
			store.Get(name)
			store.Names()
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Names(), 10)
}
