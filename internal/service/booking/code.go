package booking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewCode builds a booking code: "BK" + yymmdd + the first 10 uppercase hex
// characters of sha256(screeningID_seatID_unixTimestamp_uuid4). The random
// UUID makes codes for the same seat and second distinct.
func NewCode(screeningID, seatID int64, now time.Time) string {
	unique := fmt.Sprintf("%d_%d_%d_%s", screeningID, seatID, now.Unix(), uuid.New())

	sum := sha256.Sum256([]byte(unique))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))[:10]

	return "BK" + now.Format("060102") + digest
}

// WithCollisionSuffix appends a random 2-digit suffix, used when an
// existence check finds the freshly generated code already taken.
func WithCollisionSuffix(code string) string {
	return fmt.Sprintf("%s%02d", code, 10+rand.IntN(90))
}

// uniqueCode generates a booking code and keeps re-suffixing the base
// until exists stops reporting a collision. The suffix always attaches
// to the base, so the code format holds however many rounds it takes.
func uniqueCode(
	ctx context.Context,
	screeningID, seatID int64,
	now time.Time,
	exists func(context.Context, string) (bool, error),
) (string, error) {
	base := NewCode(screeningID, seatID, now)

	code := base
	for {
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		code = WithCollisionSuffix(base)
	}
}
