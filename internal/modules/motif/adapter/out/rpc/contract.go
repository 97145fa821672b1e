package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "motif"
	serviceName       = "gazette.motif.v1.MotifPlugin"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodRender      = "/" + serviceName + "/Render"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "GAZETTE_MOTIF_PLUGIN",
	MagicCookieValue: "gazette",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Motifs  []string `json:"motifs"`
}

type RenderRequest struct {
	Motif  string `json:"motif"`
	Width  int32  `json:"width"`
	Height int32  `json:"height"`
	Seed   uint64 `json:"seed"`
}

type RenderResponse struct {
	Lines []string `json:"lines"`
}

type MotifPluginServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Render(ctx context.Context, in *RenderRequest) (*RenderResponse, error)
}

type MotifPluginClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Render(ctx context.Context, in *RenderRequest) (*RenderResponse, error)
}

type motifPluginClient struct {
	conn *grpc.ClientConn
}

func NewMotifPluginClient(conn *grpc.ClientConn) MotifPluginClient {
	return &motifPluginClient{conn: conn}
}

func (c *motifPluginClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *motifPluginClient) Render(ctx context.Context, in *RenderRequest) (*RenderResponse, error) {
	out := &RenderResponse{}
	if err := c.conn.Invoke(ctx, methodRender, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterMotifPluginServer(server grpc.ServiceRegistrar, impl MotifPluginServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*MotifPluginServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Render",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &RenderRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Render(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodRender}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*RenderRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Render(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/motif-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl MotifPluginServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterMotifPluginServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewMotifPluginClient(conn), nil
}

func PluginMap(impl MotifPluginServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
