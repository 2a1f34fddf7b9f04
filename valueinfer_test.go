package uecomplete

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jward/uecomplete/internal/config"
	"github.com/jward/uecomplete/internal/typeclean"
)

func TestValueInferrer_DefaultShapes(t *testing.T) {
	t.Parallel()
	v := newValueInferrer(config.Default().ValueInference, typeclean.Default())

	tests := []struct {
		value string
		want  string
	}{
		{`CreateDefaultSubobject<UStaticMeshComponent>(TEXT("Mesh"))`, "UStaticMeshComponent"},
		{`CreateDefaultSubobject < USceneComponent >(TEXT("Root"))`, "USceneComponent"},
		{`NewObject<UFoo>(this)`, "UFoo"},
		{`TObjectPtr<UFoo>(Ptr)`, "UFoo"},
		{`TSharedPtr<FBar>()`, "FBar"},
		{`MakeShared<FBar>()`, "MakeShared"},
		{`Cast<AActor>(Other)`, "Cast"},
		{`FVector(1, 2, 3)`, "FVector"},
		{`UE::Math::FVector(0)`, "FVector"},
		{`  FRotator()  `, "FRotator"},
		{`GetOwner()`, "GetOwner"},
		{`Other`, ""},
		{`1 + 2`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.infer(tt.value), tt.value)
	}
}

func TestValueInferrer_ConfiguredShapes(t *testing.T) {
	t.Parallel()
	v := newValueInferrer(config.ValueInference{
		SubobjectFactories: []string{"CreateOptionalDefaultSubobject"},
		PeelConstructors:   []string{"MakeShared"},
	}, typeclean.Default())

	assert.Equal(t, "UFoo", v.infer(`CreateOptionalDefaultSubobject<UFoo>(TEXT("x"))`))
	assert.Equal(t, "FBar", v.infer(`MakeShared<FBar>()`))
	assert.Equal(t, "NewObject", v.infer(`NewObject<UFoo>()`))
}

func TestValueInferrer_NoFactories(t *testing.T) {
	t.Parallel()
	v := newValueInferrer(config.ValueInference{}, typeclean.Default())
	assert.Equal(t, "CreateDefaultSubobject", v.infer(`CreateDefaultSubobject<UFoo>()`))
}
