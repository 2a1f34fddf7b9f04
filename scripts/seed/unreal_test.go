package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/uecomplete/internal/runtime"
	"github.com/jward/uecomplete/internal/store"
	"github.com/jward/uecomplete/scripts"
)

// findModuleRoot walks up from the test's working directory to go.mod.
func findModuleRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find module root")
		}
		dir = parent
	}
}

type seedTestEnv struct {
	store *store.Store
	rt    *runtime.Runtime
	t     *testing.T
}

func newSeedTestEnv(t *testing.T, opts ...runtime.RuntimeOption) *seedTestEnv {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })

	scriptsDir := filepath.Join(findModuleRoot(t), "scripts")
	return &seedTestEnv{store: s, rt: runtime.NewRuntime(s, scriptsDir, opts...), t: t}
}

// seedHeader writes src to a temp header and runs the unreal seed script on it.
func (e *seedTestEnv) seedHeader(src string) {
	e.t.Helper()
	path := filepath.Join(e.t.TempDir(), "Test.h")
	require.NoError(e.t, os.WriteFile(path, []byte(src), 0644))

	extras := map[string]any{"file_path": path}
	err := e.rt.RunScript(context.Background(), runtime.SeedScriptPath("unreal"), extras)
	require.NoError(e.t, err)
}

func (e *seedTestEnv) class(name string) *store.Class {
	e.t.Helper()
	classes, err := e.store.ClassesByName(name)
	require.NoError(e.t, err)
	require.Len(e.t, classes, 1, "class %s", name)
	return classes[0]
}

func (e *seedTestEnv) members(name string) map[string]*store.Member {
	e.t.Helper()
	ms, err := e.store.MembersByClass(e.class(name).ID)
	require.NoError(e.t, err)
	out := make(map[string]*store.Member, len(ms))
	for _, m := range ms {
		out[m.Name] = m
	}
	return out
}

// ---------- Tests ----------

func TestUnrealSeed_ClassWithMembers(t *testing.T) {
	env := newSeedTestEnv(t)
	env.seedHeader(`class UFoo : public UObject {
public:
    UBar* Bar();
    TObjectPtr<UBar> Cached;
    int32 Count;
    void Tick(float DeltaTime) { }
};
`)
	foo := env.class("UFoo")
	assert.Equal(t, store.SymbolClass, foo.SymbolType)

	members := env.members("UFoo")
	require.Len(t, members, 4)

	require.Contains(t, members, "Bar")
	assert.Equal(t, store.MemberFunction, members["Bar"].Type)
	assert.Equal(t, "UBar*", members["Bar"].ReturnType)

	require.Contains(t, members, "Cached")
	assert.Equal(t, store.MemberVariable, members["Cached"].Type)
	assert.Equal(t, "TObjectPtr<UBar>", members["Cached"].ReturnType)

	require.Contains(t, members, "Count")
	assert.Equal(t, "int32", members["Count"].ReturnType)

	require.Contains(t, members, "Tick")
	assert.Equal(t, store.MemberFunction, members["Tick"].Type)
	assert.Equal(t, "void", members["Tick"].ReturnType)
}

func TestUnrealSeed_Inheritance(t *testing.T) {
	env := newSeedTestEnv(t)
	env.seedHeader(`class UObject {
public:
    UWorld* GetWorld() const;
};

class AActor : public UObject {
};

class APawn : public AActor {
public:
    void Restart();
};
`)
	parents, err := env.store.ParentsOf(context.Background(), env.class("APawn").ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"AActor"}, parents)

	items, err := env.store.CollectMembers(context.Background(), "APawn")
	require.NoError(t, err)
	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	assert.Equal(t, []string{"Restart", "GetWorld"}, labels)
}

func TestUnrealSeed_StructAndForwardDeclaration(t *testing.T) {
	env := newSeedTestEnv(t)
	env.seedHeader(`class UWorld;

struct FHitResult {
    float Distance;
};
`)
	classes, err := env.store.ClassesByName("UWorld")
	require.NoError(t, err)
	assert.Empty(t, classes, "forward declarations are not seeded")

	hit := env.class("FHitResult")
	assert.Equal(t, store.SymbolStruct, hit.SymbolType)
	assert.Contains(t, env.members("FHitResult"), "Distance")
}

func TestUnrealSeed_Enum(t *testing.T) {
	env := newSeedTestEnv(t)
	env.seedHeader(`enum class EMyEnum : uint8 {
    A,
    B,
    C
};
`)
	e := env.class("EMyEnum")
	assert.Equal(t, store.SymbolEnum, e.SymbolType)

	values, err := env.store.EnumValuesByEnum(e.ID)
	require.NoError(t, err)
	var names []string
	for _, v := range values {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestUnrealSeed_Aliases(t *testing.T) {
	env := newSeedTestEnv(t)
	env.seedHeader(`using FTransform = FTransform3d;
typedef UObject UBaseAlias;
`)
	alias := env.class("FTransform")
	assert.Equal(t, store.SymbolTypedef, alias.SymbolType)
	assert.Equal(t, "FTransform3d", alias.BaseClass)

	td := env.class("UBaseAlias")
	assert.Equal(t, store.SymbolTypedef, td.SymbolType)
	assert.Equal(t, "UObject", td.BaseClass)

	resolved, err := env.store.ResolveTypedef(context.Background(), "UBaseAlias")
	require.NoError(t, err)
	assert.Equal(t, "UObject", resolved)
}

func TestUnrealSeed_EmbeddedScript(t *testing.T) {
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })

	path := filepath.Join(t.TempDir(), "Foo.h")
	require.NoError(t, os.WriteFile(path, []byte("class UFoo { int32 Count; };\n"), 0644))

	rt := runtime.NewRuntime(s, "", runtime.WithRuntimeFS(scripts.FS))
	err = rt.RunScript(context.Background(), runtime.SeedScriptPath("unreal"), map[string]any{"file_path": path})
	require.NoError(t, err)

	id, ok, err := s.ClassIDByName(context.Background(), "UFoo")
	require.NoError(t, err)
	require.True(t, ok)
	members, err := s.MembersByClass(id)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Count", members[0].Name)
}

func TestUnrealSeed_BatchedCommit(t *testing.T) {
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })

	path := filepath.Join(t.TempDir(), "Foo.h")
	require.NoError(t, os.WriteFile(path, []byte("class UFoo : public UObject { UBar* Bar(); };\n"), 0644))

	batch := store.NewBatchedStore(s)
	rt := runtime.NewRuntime(s, "", runtime.WithRuntimeFS(scripts.FS), runtime.WithWriter(batch))
	err = rt.RunScript(context.Background(), runtime.SeedScriptPath("unreal"), map[string]any{"file_path": path})
	require.NoError(t, err)
	assert.Equal(t, 3, batch.Len())

	require.NoError(t, s.CommitBatch(batch))
	ret, err := s.FindMemberReturnType(context.Background(), "UFoo", "Bar")
	require.NoError(t, err)
	assert.Equal(t, "UBar", ret)
}
