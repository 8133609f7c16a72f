package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/daystreak/internal/constants"
)

func stubEnv(t *testing.T, values map[string]string) {
	t.Helper()
	old := getenv
	getenv = func(key string) string { return values[key] }
	t.Cleanup(func() { getenv = old })
}

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://tester@localhost:5432/daystreak?sslmode=disable"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("  "); err == nil {
		t.Error("SetConnectionString with blank input should fail")
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://tester@localhost/daystreak"); err != nil {
		t.Fatal(err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() after delete = %v, want ErrNotFound", err)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should be available")
	}
}

func TestResolvePrefersEnvironment(t *testing.T) {
	gokeyring.MockInit()
	if err := SetConnectionString("postgres://keyring@localhost/daystreak"); err != nil {
		t.Fatal(err)
	}
	stubEnv(t, map[string]string{constants.ConnectionEnvVar: "postgres://env@localhost/daystreak"})

	got, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if got != "postgres://env@localhost/daystreak" {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestResolveFallsBackToKeyring(t *testing.T) {
	gokeyring.MockInit()
	stubEnv(t, nil)

	got, err := Resolve()
	if err != nil || got != "" {
		t.Errorf("Resolve() with nothing stored = %q, %v", got, err)
	}

	if err := SetConnectionString("postgres://keyring@localhost/daystreak"); err != nil {
		t.Fatal(err)
	}
	got, err = Resolve()
	if err != nil || got != "postgres://keyring@localhost/daystreak" {
		t.Errorf("Resolve() = %q, %v", got, err)
	}
}

func TestResolveReportsUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus down"))
	stubEnv(t, nil)

	if _, err := Resolve(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Resolve() error = %v, want ErrKeyringUnavailable", err)
	}
}
