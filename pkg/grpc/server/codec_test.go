package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestJSONCodec(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	require.NotNil(t, codec, "codec must be registered")
	assert.Equal(t, CodecName, codec.Name())

	t.Run("plain struct", func(t *testing.T) {
		type msg struct {
			Code  string  `json:"code"`
			Total float64 `json:"total"`
		}
		data, err := codec.Marshal(msg{Code: "USD", Total: 260})
		require.NoError(t, err)
		assert.JSONEq(t, `{"code":"USD","total":260}`, string(data))

		var out msg
		require.NoError(t, codec.Unmarshal(data, &out))
		assert.Equal(t, msg{Code: "USD", Total: 260}, out)
	})

	t.Run("proto message uses protojson", func(t *testing.T) {
		data, err := codec.Marshal(&healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING})
		require.NoError(t, err)
		assert.Contains(t, string(data), `"SERVING"`)

		var out healthpb.HealthCheckResponse
		require.NoError(t, codec.Unmarshal(data, &out))
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, out.Status)
	})
}
