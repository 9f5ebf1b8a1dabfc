package repositories

import (
	"fmt"
	"time"

	"github.com/keyhold/leaseback-service/internal/codec"
	"github.com/keyhold/leaseback-service/internal/utils"
)

// Helpers composing the typed field codec with AES-GCM encryption. Every
// non-string column goes through exactly one encode/decode pair here, and
// every failure carries the offending column name. Nullable values are stored
// as the bare empty string so reads can pass nil through without touching the
// cipher.

func encryptString(key []byte, field, v string) (string, error) {
	out, err := utils.Encrypt(key, v)
	if err != nil {
		return "", fmt.Errorf("encrypt %s: %w", field, err)
	}
	return out, nil
}

func decryptString(key []byte, field, stored string) (string, error) {
	out, err := utils.Decrypt(key, stored)
	if err != nil {
		return "", fmt.Errorf("decrypt %s: %w", field, err)
	}
	return out, nil
}

func encryptNullableString(key []byte, field, v string) (string, error) {
	if v == "" {
		return "", nil
	}
	return encryptString(key, field, v)
}

func decryptNullableString(key []byte, field, stored string) (string, error) {
	if stored == "" {
		return "", nil
	}
	return decryptString(key, field, stored)
}

func encryptInt(key []byte, field string, v int64) (string, error) {
	return encryptString(key, field, codec.EncodeInt(v))
}

func decryptInt(key []byte, field, stored string) (int64, error) {
	plain, err := decryptString(key, field, stored)
	if err != nil {
		return 0, err
	}
	v, err := codec.DecodeInt(plain)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", field, err)
	}
	return v, nil
}

func encryptFloat(key []byte, field string, v float64) (string, error) {
	encoded, err := codec.EncodeFloat(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", field, err)
	}
	return encryptString(key, field, encoded)
}

func decryptFloat(key []byte, field, stored string) (float64, error) {
	plain, err := decryptString(key, field, stored)
	if err != nil {
		return 0, err
	}
	v, err := codec.DecodeFloat(plain)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", field, err)
	}
	return v, nil
}

func encryptNullableInt(key []byte, field string, v *int64) (string, error) {
	if v == nil {
		return "", nil
	}
	return encryptInt(key, field, *v)
}

func decryptNullableInt(key []byte, field, stored string) (*int64, error) {
	if stored == "" {
		return nil, nil
	}
	v, err := decryptInt(key, field, stored)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func encryptNullableFloat(key []byte, field string, v *float64) (string, error) {
	if v == nil {
		return "", nil
	}
	return encryptFloat(key, field, *v)
}

func decryptNullableFloat(key []byte, field, stored string) (*float64, error) {
	if stored == "" {
		return nil, nil
	}
	v, err := decryptFloat(key, field, stored)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func encryptDate(key []byte, field string, t time.Time) (string, error) {
	return encryptString(key, field, codec.EncodeDate(t))
}

func decryptDate(key []byte, field, stored string) (time.Time, error) {
	plain, err := decryptString(key, field, stored)
	if err != nil {
		return time.Time{}, err
	}
	t, err := codec.DecodeDate(plain)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode %s: %w", field, err)
	}
	return t, nil
}

func encryptNullableDate(key []byte, field string, t *time.Time) (string, error) {
	if t == nil {
		return "", nil
	}
	return encryptDate(key, field, *t)
}

func decryptNullableDate(key []byte, field, stored string) (*time.Time, error) {
	if stored == "" {
		return nil, nil
	}
	t, err := decryptDate(key, field, stored)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func encryptStringList(key []byte, field string, items []string) (string, error) {
	encoded, err := codec.EncodeStrings(items)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", field, err)
	}
	return encryptString(key, field, encoded)
}

func decryptStringList(key []byte, field, stored string) ([]string, error) {
	plain, err := decryptString(key, field, stored)
	if err != nil {
		return nil, err
	}
	items, err := codec.DecodeStringList(plain)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	return items, nil
}

func encryptBoolMap(key []byte, field string, m map[string]bool) (string, error) {
	if m == nil {
		m = map[string]bool{}
	}
	encoded, err := codec.EncodeJSON(m)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", field, err)
	}
	return encryptString(key, field, encoded)
}

func decryptBoolMap(key []byte, field, stored string) (map[string]bool, error) {
	plain, err := decryptString(key, field, stored)
	if err != nil {
		return nil, err
	}
	raw, err := codec.DecodeJSON(plain)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	out := make(map[string]bool, len(raw))
	for k, v := range raw {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("decode %s: %w: value for %q", field, codec.ErrMalformedJSON, k)
		}
		out[k] = b
	}
	return out, nil
}
