package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"

	"github.com/godilite/procurement-server/pkg/grpc/server"
)

const ServiceName = "procurement.v1.Procurement"

// ProcurementServer is the server API of the procurement service.
type ProcurementServer interface {
	GetCurrencyRates(context.Context, *GetCurrencyRatesRequest) (*GetCurrencyRatesResponse, error)
	SummarizeBudget(context.Context, *SummarizeBudgetRequest) (*SummarizeBudgetResponse, error)
	ListScoringTypes(context.Context, *ListScoringTypesRequest) (*ListScoringTypesResponse, error)
	GetQuestionBank(context.Context, *GetQuestionBankRequest) (*GetQuestionBankResponse, error)
	SubmitEvaluation(context.Context, *SubmitEvaluationRequest) (*SubmitEvaluationResponse, error)
	GetEvaluation(context.Context, *GetEvaluationRequest) (*GetEvaluationResponse, error)
}

func unaryHandler[Req, Resp any](method string, call func(ProcurementServer, context.Context, *Req) (*Resp, error)) gogrpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProcurementServer), ctx, in)
		}
		info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProcurementServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the procurement service. Messages travel with the
// JSON codec registered by pkg/grpc/server.
var ServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProcurementServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "GetCurrencyRates", Handler: unaryHandler("GetCurrencyRates", ProcurementServer.GetCurrencyRates)},
		{MethodName: "SummarizeBudget", Handler: unaryHandler("SummarizeBudget", ProcurementServer.SummarizeBudget)},
		{MethodName: "ListScoringTypes", Handler: unaryHandler("ListScoringTypes", ProcurementServer.ListScoringTypes)},
		{MethodName: "GetQuestionBank", Handler: unaryHandler("GetQuestionBank", ProcurementServer.GetQuestionBank)},
		{MethodName: "SubmitEvaluation", Handler: unaryHandler("SubmitEvaluation", ProcurementServer.SubmitEvaluation)},
		{MethodName: "GetEvaluation", Handler: unaryHandler("GetEvaluation", ProcurementServer.GetEvaluation)},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "procurement/v1/procurement.proto",
}

func RegisterProcurementServer(s gogrpc.ServiceRegistrar, srv ProcurementServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is a thin client for the procurement service.
type Client struct {
	cc gogrpc.ClientConnInterface
}

func NewClient(cc gogrpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc gogrpc.ClientConnInterface, method string, in *Req, opts []gogrpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]gogrpc.CallOption{gogrpc.CallContentSubtype(server.CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCurrencyRates(ctx context.Context, in *GetCurrencyRatesRequest, opts ...gogrpc.CallOption) (*GetCurrencyRatesResponse, error) {
	return invoke[GetCurrencyRatesRequest, GetCurrencyRatesResponse](ctx, c.cc, "GetCurrencyRates", in, opts)
}

func (c *Client) SummarizeBudget(ctx context.Context, in *SummarizeBudgetRequest, opts ...gogrpc.CallOption) (*SummarizeBudgetResponse, error) {
	return invoke[SummarizeBudgetRequest, SummarizeBudgetResponse](ctx, c.cc, "SummarizeBudget", in, opts)
}

func (c *Client) ListScoringTypes(ctx context.Context, in *ListScoringTypesRequest, opts ...gogrpc.CallOption) (*ListScoringTypesResponse, error) {
	return invoke[ListScoringTypesRequest, ListScoringTypesResponse](ctx, c.cc, "ListScoringTypes", in, opts)
}

func (c *Client) GetQuestionBank(ctx context.Context, in *GetQuestionBankRequest, opts ...gogrpc.CallOption) (*GetQuestionBankResponse, error) {
	return invoke[GetQuestionBankRequest, GetQuestionBankResponse](ctx, c.cc, "GetQuestionBank", in, opts)
}

func (c *Client) SubmitEvaluation(ctx context.Context, in *SubmitEvaluationRequest, opts ...gogrpc.CallOption) (*SubmitEvaluationResponse, error) {
	return invoke[SubmitEvaluationRequest, SubmitEvaluationResponse](ctx, c.cc, "SubmitEvaluation", in, opts)
}

func (c *Client) GetEvaluation(ctx context.Context, in *GetEvaluationRequest, opts ...gogrpc.CallOption) (*GetEvaluationResponse, error) {
	return invoke[GetEvaluationRequest, GetEvaluationResponse](ctx, c.cc, "GetEvaluation", in, opts)
}
