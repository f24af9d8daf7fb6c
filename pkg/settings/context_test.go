package settings

import (
	"context"
	"testing"
)

func TestIntoContext(t *testing.T) {
	tests := []struct {
		name     string
		settings *Run
	}{
		{
			name:     "empty_settings",
			settings: &Run{},
		},
		{
			name: "settings_with_values",
			settings: &Run{
				NoColor: true,
				Client:  ClientMobile,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			newCtx := IntoContext(ctx, tt.settings)
			if newCtx == ctx {
				t.Fatal("IntoContext() should return a derived context")
			}
			got, ok := FromContext(newCtx)
			if !ok {
				t.Fatal("FromContext() did not find settings")
			}
			if got != tt.settings {
				t.Errorf("FromContext() = %p; want %p", got, tt.settings)
			}
		})
	}
}

func TestFromContextMissing(t *testing.T) {
	got, ok := FromContext(context.Background())
	if ok || got != nil {
		t.Errorf("FromContext() = %v, %v; want nil, false", got, ok)
	}
}

func TestFromContextWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), runContextKey, "not settings")
	if _, ok := FromContext(ctx); ok {
		t.Error("FromContext() should reject values of the wrong type")
	}
	if _, ok := FromContext(IntoContext(context.Background(), nil)); ok {
		t.Error("FromContext() should reject a nil *Run")
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := NewCliParams()
	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Errorf("FromContextOr() = %p; want fallback %p", got, fallback)
	}
	attached := &Run{Client: ClientMobile}
	ctx := IntoContext(context.Background(), attached)
	if got := FromContextOr(ctx, fallback); got != attached {
		t.Errorf("FromContextOr() = %p; want attached %p", got, attached)
	}
}
