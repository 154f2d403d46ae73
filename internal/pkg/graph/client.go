package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/qs3c/lingo_go_server/config"
)

// Client 知识图谱服务客户端，按 nodeset 拉取子图
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.GraphConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GraphData 节点和边原样透传给前端
type GraphData struct {
	Nodes json.RawMessage `json:"nodes_data"`
	Edges json.RawMessage `json:"edges_data"`
}

// GetGraphData 获取指定 nodeset 的图数据
func (c *Client) GetGraphData(ctx context.Context, nodesetName string) (*GraphData, error) {
	u := fmt.Sprintf("%s/api/graph?nodeset=%s", c.baseURL, url.QueryEscape(nodesetName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("graph api error: %s", string(body))
	}

	var data GraphData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode graph response: %w", err)
	}

	return &data, nil
}
