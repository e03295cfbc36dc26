package env

import "testing"

func TestGetFallsBack(t *testing.T) {
	t.Setenv("CART_TEST_VALUE", "")
	if got := Get("CART_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("CART_TEST_VALUE", "set")
	if got := Get("CART_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("expected set, got %q", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("CART_TEST_FLAG", "true")
	if !GetBool("CART_TEST_FLAG", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("CART_TEST_FLAG", "nope")
	if !GetBool("CART_TEST_FLAG", true) {
		t.Fatalf("malformed value should return fallback")
	}
	t.Setenv("CART_TEST_FLAG", "")
	if GetBool("CART_TEST_FLAG", false) {
		t.Fatalf("unset value should return fallback")
	}
}
