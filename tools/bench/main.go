package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

// 并发应答压测：同一报价由多个协程同时接受，检查只有一次成功且评分只加一次

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type APITestStats struct {
	TotalRequests  int
	Accepted       int
	Conflicts      int
	FailedRequests int
	AverageLatency time.Duration
	MaxLatency     time.Duration
	MinLatency     time.Duration
	mu             sync.Mutex
}

func (s *APITestStats) Add(code int, err error, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TotalRequests++
	switch {
	case err != nil:
		s.FailedRequests++
		return
	case code == 0:
		s.Accepted++
	case code == 409:
		s.Conflicts++
	default:
		s.FailedRequests++
		return
	}
	if s.MinLatency == 0 || latency < s.MinLatency {
		s.MinLatency = latency
	}
	if latency > s.MaxLatency {
		s.MaxLatency = latency
	}
	if s.AverageLatency == 0 {
		s.AverageLatency = latency
	} else {
		s.AverageLatency = (s.AverageLatency + latency) / 2
	}
}

type client struct {
	base  string
	http  *http.Client
	token string
}

func (c *client) do(method, path string, body interface{}, out interface{}) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return 0, err
	}
	if env.Code == 0 && out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return 0, err
		}
	}
	return env.Code, nil
}

func (c *client) must(method, path string, body interface{}, out interface{}) {
	code, err := c.do(method, path, body, out)
	if err != nil || code != 0 {
		fmt.Printf("%s %s 失败: code=%d err=%v\n", method, path, code, err)
		os.Exit(1)
	}
}

type user struct {
	client
	ID uint
}

func signIn(base, telegramID string) *user {
	u := &user{client: client{base: base, http: &http.Client{Timeout: 8 * time.Second}}}
	var out struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	u.must(http.MethodPost, "/api/v1/users/signin", map[string]string{"telegram_id": telegramID, "name": telegramID}, &out)
	u.ID = out.User.ID
	u.token = out.AccessToken
	return u
}

func (u *user) newCase(title string) uint {
	var out struct {
		ID uint `json:"id"`
	}
	u.must(http.MethodPost, "/api/v1/cases", map[string]string{
		"title": title, "item_type": "bench", "price_category": "bench",
	}, &out)
	return out.ID
}

func (u *user) rating(userID uint) int {
	var out struct {
		Rating int `json:"rating"`
	}
	u.must(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/rating", userID), nil, &out)
	return out.Rating
}

func runAcceptRace(base string, concurrency, rounds int) bool {
	fmt.Println("\n=== 并发应答测试开始 ===")
	fmt.Printf("目标: %s 并发: %d 轮数: %d\n", base, concurrency, rounds)

	suffix := strconv.FormatInt(time.Now().UnixNano(), 36)
	proposer := signIn(base, "bench-proposer-"+suffix)
	receiver := signIn(base, "bench-receiver-"+suffix)
	before := receiver.rating(proposer.ID)

	stats := &APITestStats{}
	badRounds := 0
	start := time.Now()

	for r := 0; r < rounds; r++ {
		offered := proposer.newCase(fmt.Sprintf("offered-%d", r))
		requested := receiver.newCase(fmt.Sprintf("requested-%d", r))
		var offer struct {
			ID uint `json:"id"`
		}
		proposer.must(http.MethodPost, "/api/v1/offers", map[string]uint{
			"to_user_id":        receiver.ID,
			"offered_item_id":   offered,
			"requested_item_id": requested,
		}, &offer)

		round := &APITestStats{}
		var wg sync.WaitGroup
		gate := make(chan struct{})
		for i := 0; i < concurrency; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-gate
				t := time.Now()
				code, err := receiver.do(http.MethodPut, fmt.Sprintf("/api/v1/offers/%d", offer.ID), map[string]string{"status": "accepted"}, nil)
				lat := time.Since(t)
				round.Add(code, err, lat)
				stats.Add(code, err, lat)
			}()
		}
		close(gate)
		wg.Wait()

		if round.Accepted != 1 {
			badRounds++
			fmt.Printf("第 %d 轮: 报价 %d 成功应答 %d 次\n", r+1, offer.ID, round.Accepted)
		}
	}

	took := time.Since(start)
	gained := receiver.rating(proposer.ID) - before

	fmt.Println("\n=== 并发应答测试结果 ===")
	fmt.Printf("耗时: %v\n", took)
	fmt.Printf("总请求: %d 接受: %d 冲突: %d 失败: %d\n", stats.TotalRequests, stats.Accepted, stats.Conflicts, stats.FailedRequests)
	fmt.Printf("延迟 平均: %v 最大: %v 最小: %v\n", stats.AverageLatency, stats.MaxLatency, stats.MinLatency)
	if took > 0 {
		fmt.Printf("QPS: %.2f\n", float64(stats.TotalRequests)/took.Seconds())
	}
	fmt.Printf("发起人评分增加: %d (期望 %d)\n", gained, rounds)

	return badRounds == 0 && gained == rounds
}

func argInt(i, def int) int {
	if len(os.Args) > i {
		if val, err := strconv.Atoi(os.Args[i]); err == nil && val > 0 {
			return val
		}
	}
	return def
}

func main() {
	// 参数: 并发数 轮数 [服务地址]
	concurrency := argInt(1, 8)
	rounds := argInt(2, 20)
	baseURL := "http://localhost:8080"
	if len(os.Args) > 3 {
		baseURL = os.Args[3]
	}

	fmt.Println("=== 案例交换并发应答测试 ===")
	fmt.Printf("开始时间: %s\n", time.Now().Format("2006-01-02 15:04:05"))

	if !runAcceptRace(baseURL, concurrency, rounds) {
		fmt.Println("\n=== 测试失败 ===")
		os.Exit(1)
	}
	fmt.Println("\n=== 测试完成 ===")
}
