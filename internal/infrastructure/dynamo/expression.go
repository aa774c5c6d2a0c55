package dynamo

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UpdateExpr is the artifact consumed by UpdateItem: the SET expression, the
// value placeholder map, and the name placeholder map. Names is nil when no
// reserved-word aliasing occurred — DynamoDB rejects an empty (but present)
// ExpressionAttributeNames map, so callers pass Names through unconditionally
// and rely on nil meaning absent.
type UpdateExpr struct {
	Expr   string
	Values map[string]types.AttributeValue
	Names  map[string]string
}

// BuildUpdateExpr converts a sparse logical-field → value mapping into a
// DynamoDB SET expression. Logical (API, camelCase) names are resolved to
// canonical storage names through mapping; names absent from the mapping pass
// through verbatim. The updated_at timestamp clause is always present, even
// for an empty input. A nil value is a legal update and becomes a NULL
// attribute rather than being dropped. Fields are emitted in sorted order so
// the expression is deterministic.
//
// BuildUpdateExpr never fails: values that cannot be marshalled degrade to
// their string form.
func BuildUpdateExpr(updates map[string]any, mapping map[string]string) *UpdateExpr {
	ue := &UpdateExpr{
		Expr: "SET " + fieldUpdatedAt + " = :" + fieldUpdatedAt,
		Values: map[string]types.AttributeValue{
			":" + fieldUpdatedAt: &types.AttributeValueMemberS{
				Value: time.Now().UTC().Format(time.RFC3339),
			},
		},
	}

	fields := make([]string, 0, len(updates))
	for f := range updates {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		attr, ok := mapping[field]
		if !ok {
			// Permissive pass-through keeps legacy callers working, but a
			// typo here would silently write a new attribute.
			slog.Warn("update field not in mapping, using verbatim", "field", field)
			attr = field
		}

		placeholder := ":" + attr
		ue.Values[placeholder] = marshalValue(attr, updates[field])

		if isReservedWord(attr) {
			if ue.Names == nil {
				ue.Names = make(map[string]string)
			}
			ue.Names["#"+attr] = attr
			ue.Expr += ", #" + attr + " = " + placeholder
		} else {
			ue.Expr += ", " + attr + " = " + placeholder
		}
	}

	return ue
}

// marshalValue reduces a single update value to an AttributeValue. Explicit
// nil means null-out the attribute. Typed enums and timestamps are flattened
// to strings first, address-like maps are normalized to canonical keys, and
// everything else goes through attributevalue.Marshal with a string fallback.
func marshalValue(attr string, v any) types.AttributeValue {
	if v == nil {
		return &types.AttributeValueMemberNULL{Value: true}
	}
	if isEnumLike(v) {
		return &types.AttributeValueMemberS{Value: safeString(v, "")}
	}
	if m, ok := v.(map[string]any); ok {
		v = NormalizeAddress(m)
	}
	av, err := attributevalue.Marshal(v)
	if err != nil {
		slog.Warn("could not marshal update value, storing string form", "attr", attr, "type", fmt.Sprintf("%T", v), "err", err)
		return &types.AttributeValueMemberS{Value: safeString(v, "")}
	}
	return av
}
