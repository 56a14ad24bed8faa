// Package rpc exposes the scoring engine over gRPC. Messages are the
// well-known google.protobuf.Struct and Empty types, so the service needs no
// generated code: the ServiceDesc below is written by hand in the shape
// protoc-gen-go-grpc would produce.
//
//	service Assessment {
//	  rpc Score(google.protobuf.Struct) returns (google.protobuf.Struct);
//	  rpc Catalog(google.protobuf.Empty) returns (google.protobuf.Struct);
//	}
//
// Score expects {"answers": {"<question id>": "<value>", ...}} and returns the
// Result in its JSON shape. Catalog returns {"total": n, "questions": [...]}.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nyashahama/smartcity-readiness-backend/internal/catalog"
	"github.com/nyashahama/smartcity-readiness-backend/internal/scoring"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "smartcity.assessment.v1.Assessment"

// Full method names, usable with grpc.ClientConn.Invoke.
const (
	MethodScore   = "/" + ServiceName + "/Score"
	MethodCatalog = "/" + ServiceName + "/Catalog"
)

// AssessmentServer is the server API for the Assessment service.
type AssessmentServer interface {
	Score(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Catalog(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterAssessmentServer registers srv on s.
func RegisterAssessmentServer(s grpc.ServiceRegistrar, srv AssessmentServer) {
	s.RegisterService(&assessmentServiceDesc, srv)
}

var assessmentServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AssessmentServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Score", Handler: scoreHandler},
		{MethodName: "Catalog", Handler: catalogHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "smartcity/assessment/v1/assessment.proto",
}

func scoreHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssessmentServer).Score(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodScore}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssessmentServer).Score(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func catalogHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssessmentServer).Catalog(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodCatalog}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AssessmentServer).Catalog(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ─── IMPLEMENTATION ──────────────────────────────────────────────────────────

// Service implements AssessmentServer against a fixed catalog.
type Service struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewService returns a Service scoring against cat.
func NewService(cat *catalog.Catalog, logger *slog.Logger) *Service {
	return &Service{catalog: cat, logger: logger}
}

// Score computes a Result for the answers in the request.
func (s *Service) Score(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	answers, err := answersFrom(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := scoring.ComputeResult(answers, s.catalog)
	if err != nil {
		return nil, s.statusFor(err)
	}

	out, err := toStruct(result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return out, nil
}

// Catalog lists the questions in presentation order. Option tiers are not
// included.
func (s *Service) Catalog(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	type question struct {
		ID       string               `json:"id"`
		Type     catalog.QuestionType `json:"type"`
		Category catalog.Category     `json:"category"`
		Section  string               `json:"section"`
		Prompt   string               `json:"prompt"`
		Low      string               `json:"scale_low,omitempty"`
		High     string               `json:"scale_high,omitempty"`
		Options  []string             `json:"options,omitempty"`
	}

	qs := s.catalog.Questions()
	list := make([]question, len(qs))
	for i, q := range qs {
		list[i] = question{
			ID:       q.ID,
			Type:     q.Type,
			Category: q.Category,
			Section:  q.Section,
			Prompt:   q.Prompt,
			Options:  q.OptionTexts(),
		}
		if q.Scale != nil {
			list[i].Low, list[i].High = q.Scale.Low, q.Scale.High
		}
	}

	out, err := toStruct(map[string]any{"total": len(qs), "questions": list})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode catalog: %v", err)
	}
	return out, nil
}

func (s *Service) statusFor(err error) error {
	switch {
	case errors.Is(err, scoring.ErrInvalidAnswer):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, catalog.ErrConfig):
		s.logger.Error("rpc: catalog misconfigured", "error", err)
		return status.Error(codes.FailedPrecondition, "assessment catalog is misconfigured")
	default:
		s.logger.Error("rpc: internal error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

// answersFrom reads the "answers" object. Every value must be a string; a
// missing object is an empty answer set.
func answersFrom(in *structpb.Struct) (scoring.AnswerSet, error) {
	answers := scoring.AnswerSet{}
	for key := range in.GetFields() {
		if key != "answers" {
			return nil, fmt.Errorf("unknown field %q", key)
		}
	}
	raw, ok := in.GetFields()["answers"]
	if !ok {
		return answers, nil
	}
	obj := raw.GetStructValue()
	if obj == nil {
		return nil, errors.New(`"answers" must be an object`)
	}
	for id, v := range obj.GetFields() {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("answer for %q must be a string", id)
		}
		answers.Set(id, sv.StringValue)
	}
	return answers, nil
}

// toStruct converts v to a Struct through its JSON encoding so the wire shape
// matches the HTTP API exactly.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
