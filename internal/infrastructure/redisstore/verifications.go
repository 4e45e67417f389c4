package redisstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/No0oD/Stajh2Test/internal/domain"
	"github.com/redis/go-redis/v9"
)

// expiryIndex is a sorted set of emails scored by expirationTime.
const expiryIndex = "verification:expiry"

func verificationKey(email string) string {
	return "verification:" + email
}

// markVerified only touches the hash when it already exists.
var markVerified = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], "verified", "1", "verifiedAt", ARGV[1])
return 1
`)

// deleteExpired removes the hash and its index entry unless the stored
// expirationTime is no longer below ARGV[2]. A missing hash only drops the
// index entry.
var deleteExpired = redis.NewScript(`
local exp = redis.call("HGET", KEYS[1], "expirationTime")
if exp and tonumber(exp) >= tonumber(ARGV[2]) then
  return 0
end
redis.call("ZREM", KEYS[2], ARGV[1])
if not exp then
  return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

// VerificationRepo keeps one hash per email plus the expiry index.
type VerificationRepo struct {
	client *redis.Client
}

func NewVerificationRepo(client *redis.Client) *VerificationRepo {
	return &VerificationRepo{client: client}
}

func (r *VerificationRepo) Put(ctx context.Context, v *domain.VerificationRecord) error {
	key := verificationKey(v.Email)
	fields := map[string]interface{}{
		"email":          v.Email,
		"code":           v.Code,
		"expirationTime": v.ExpirationTime,
		"verified":       boolField(v.Verified),
		"createdAt":      v.CreatedAt,
	}
	if v.VerifiedAt != nil {
		fields["verifiedAt"] = *v.VerifiedAt
	}
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key, fields)
		p.ZAdd(ctx, expiryIndex, redis.Z{Score: float64(v.ExpirationTime), Member: v.Email})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save verification: %w", err)
	}
	return nil
}

func (r *VerificationRepo) Get(ctx context.Context, email string) (*domain.VerificationRecord, error) {
	m, err := r.client.HGetAll(ctx, verificationKey(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return decodeRecord(m)
}

func (r *VerificationRepo) MarkVerified(ctx context.Context, email string, at int64) error {
	err := markVerified.Run(ctx, r.client, []string{verificationKey(email)}, at).Err()
	if err != nil {
		return fmt.Errorf("failed to mark verified: %w", err)
	}
	return nil
}

func (r *VerificationRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, verificationKey(email))
		p.ZRem(ctx, expiryIndex, email)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete verification: %w", err)
	}
	return nil
}

// QueryExpiredBefore returns records whose expirationTime is strictly below before.
func (r *VerificationRepo) QueryExpiredBefore(ctx context.Context, before int64) ([]domain.VerificationRecord, error) {
	emails, err := r.client.ZRangeByScore(ctx, expiryIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(before, 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query expiry index: %w", err)
	}
	if len(emails) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(emails))
	_, err = r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, email := range emails {
			cmds[i] = p.HGetAll(ctx, verificationKey(email))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load expired verifications: %w", err)
	}

	out := make([]domain.VerificationRecord, 0, len(emails))
	for i, cmd := range cmds {
		m := cmd.Val()
		if len(m) == 0 {
			// index entry without a hash; report it so the sweep removes it
			out = append(out, domain.VerificationRecord{Email: emails[i]})
			continue
		}
		rec, err := decodeRecord(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// DeleteExpired re-checks each record's expiry inside a script so a code
// re-issued after QueryExpiredBefore survives.
func (r *VerificationRepo) DeleteExpired(ctx context.Context, emails []string, before int64) (int, error) {
	n := 0
	for _, email := range emails {
		removed, err := deleteExpired.Run(ctx, r.client,
			[]string{verificationKey(email), expiryIndex}, email, before).Int()
		if err != nil {
			return n, fmt.Errorf("failed to delete verification %s: %w", email, err)
		}
		n += removed
	}
	return n, nil
}

func decodeRecord(m map[string]string) (*domain.VerificationRecord, error) {
	rec := &domain.VerificationRecord{
		Email:    m["email"],
		Code:     m["code"],
		Verified: m["verified"] == "1",
	}
	var err error
	if rec.ExpirationTime, err = strconv.ParseInt(m["expirationTime"], 10, 64); err != nil {
		return nil, fmt.Errorf("corrupt expirationTime for %s: %w", rec.Email, err)
	}
	if s, ok := m["createdAt"]; ok {
		rec.CreatedAt, _ = strconv.ParseInt(s, 10, 64)
	}
	if s, ok := m["verifiedAt"]; ok {
		at, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt verifiedAt for %s: %w", rec.Email, err)
		}
		rec.VerifiedAt = &at
	}
	return rec, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
