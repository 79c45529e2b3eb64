package contexts

import (
	"context"

	"github.com/looplj/orghub/internal/objects"
)

// WithOrgContext stores the per-request authorization context.
// The context is immutable after construction; callers must never mutate it
// once attached.
func WithOrgContext(ctx context.Context, orgCtx *objects.OrgContext) context.Context {
	container := getContainer(ctx)
	container.OrgContext = orgCtx

	return withContainer(ctx, container)
}

// GetOrgContext retrieves the per-request authorization context.
func GetOrgContext(ctx context.Context) (*objects.OrgContext, bool) {
	container := getContainer(ctx)
	return container.OrgContext, container.OrgContext != nil
}

// WithUser stores the local principal record in the context.
func WithUser(ctx context.Context, user *objects.User) context.Context {
	container := getContainer(ctx)
	container.User = user

	return withContainer(ctx, container)
}

// GetUser retrieves the local principal record from the context.
func GetUser(ctx context.Context) (*objects.User, bool) {
	container := getContainer(ctx)
	return container.User, container.User != nil
}

// WithClaims stores the session claims payload in the context.
func WithClaims(ctx context.Context, claims *objects.Claims) context.Context {
	container := getContainer(ctx)
	container.Claims = claims

	return withContainer(ctx, container)
}

// GetClaims retrieves the session claims payload from the context.
func GetClaims(ctx context.Context) (*objects.Claims, bool) {
	container := getContainer(ctx)
	return container.Claims, container.Claims != nil
}

// WithTraceID stores the trace id in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	container := getContainer(ctx)
	container.TraceID = &traceID

	return withContainer(ctx, container)
}

// GetTraceID retrieves the trace id from the context.
func GetTraceID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.TraceID != nil {
		return *container.TraceID, true
	}

	return "", false
}

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	container := getContainer(ctx)
	container.RequestID = &requestID

	return withContainer(ctx, container)
}

// GetRequestID retrieves the request id from the context.
func GetRequestID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.RequestID != nil {
		return *container.RequestID, true
	}

	return "", false
}

// WithOperationName stores the operation name in the context.
func WithOperationName(ctx context.Context, name string) context.Context {
	container := getContainer(ctx)
	container.OperationName = &name

	return withContainer(ctx, container)
}

// GetOperationName retrieves the operation name from the context.
func GetOperationName(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.OperationName != nil {
		return *container.OperationName, true
	}

	return "", false
}

// AddError records an error on the request for access logging.
func AddError(ctx context.Context, err error) {
	container := getContainer(ctx)
	container.mu.Lock()
	defer container.mu.Unlock()

	container.Errors = append(container.Errors, err)
}

// GetErrors returns the errors recorded on the request.
func GetErrors(ctx context.Context) []error {
	container := getContainer(ctx)
	container.mu.RLock()
	defer container.mu.RUnlock()

	return container.Errors
}
