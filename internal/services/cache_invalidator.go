package services

import (
	"context"

	"edupay-backend/internal/cache"
)

// RedisInvalidator adapts the cache package to the service interfaces.
type RedisInvalidator struct{}

func (RedisInvalidator) InvalidatePayments(ctx context.Context)   { cache.InvalidatePaymentCaches(ctx) }
func (RedisInvalidator) InvalidateStudents(ctx context.Context)   { cache.InvalidateStudentCaches(ctx) }
func (RedisInvalidator) InvalidateStructures(ctx context.Context) { cache.InvalidateStructureCaches(ctx) }
