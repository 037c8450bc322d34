package repository

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name string
		in   error
		code StorageCode
	}{
		{"record not found", gorm.ErrRecordNotFound, StorageNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, StorageConflict},
		{"foreign key violated", gorm.ErrForeignKeyViolated, StorageConflict},
		{"invalid db", gorm.ErrInvalidDB, StorageConnection},
		{"anything else", errors.New("disk full"), StorageInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := translate("user.get", tc.in)
			var se *StorageError
			if !errors.As(err, &se) {
				t.Fatalf("expected StorageError, got %T", err)
			}
			if se.Code != tc.code {
				t.Fatalf("expected %s, got %s", tc.code, se.Code)
			}
			if se.Op != "user.get" {
				t.Fatalf("op lost: %q", se.Op)
			}
			// The cause stays reachable for logging.
			if !errors.Is(err, tc.in) {
				t.Fatal("cause not unwrappable")
			}
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		if err := translate("user.get", nil); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("wrapped cause still classifies", func(t *testing.T) {
		err := translate("leave.get", fmt.Errorf("query: %w", gorm.ErrRecordNotFound))
		if !IsNotFound(err) {
			t.Fatalf("wrapped not-found not recognized: %v", err)
		}
	})
}

func TestPredicates(t *testing.T) {
	notFound := translate("x", gorm.ErrRecordNotFound)
	conflict := translate("x", gorm.ErrDuplicatedKey)

	if !IsNotFound(notFound) || IsNotFound(conflict) {
		t.Fatal("IsNotFound misclassified")
	}
	if !IsConflict(conflict) || IsConflict(notFound) {
		t.Fatal("IsConflict misclassified")
	}
	if IsNotFound(nil) || IsConflict(nil) {
		t.Fatal("nil must not match")
	}
	if IsNotFound(errors.New("plain")) {
		t.Fatal("plain error must not match")
	}
}
