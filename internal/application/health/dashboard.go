package health

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RenderDashboardHTML returns the status page served at GET /.
func RenderDashboardHTML(health CollectResult) string {
	payload := map[string]interface{}{
		"status":       health.Status,
		"runtime":      health.Runtime,
		"traffic":      health.Traffic,
		"dependencies": health.Dependencies,
	}
	b, _ := json.Marshal(payload)
	jsonStr := string(b)
	// Escape for embedding in a JS template literal: \ ` $
	jsonStr = strings.ReplaceAll(jsonStr, "\\", "\\\\")
	jsonStr = strings.ReplaceAll(jsonStr, "`", "\\`")
	jsonStr = strings.ReplaceAll(jsonStr, "$", "\\$")

	avgTime := fmt.Sprint(health.Traffic.AvgResponseTime)
	lastReqMethod := "-"
	lastReqPath := "-"
	lastReqIP := "-"
	if health.Traffic.LastRequest != nil {
		if m, ok := health.Traffic.LastRequest.(map[string]interface{}); ok {
			if v, ok := m["method"].(string); ok {
				lastReqMethod = v
			}
			if v, ok := m["path"].(string); ok {
				lastReqPath = v
			}
			if v, ok := m["ip"].(string); ok {
				lastReqIP = v
			}
		}
	}

	headline := "All Systems Operational"
	if health.Status != "ok" {
		headline = "System Issues Detected"
	}

	return `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Nexora · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --blue: #2563EB; --dark: #111827; --bg: #F3F4F6; --muted: #6B7280; }
    * { box-sizing: border-box; }
    body { background: var(--bg); color: var(--dark); font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; min-height: 100vh; display: flex; align-items: center; justify-content: center; }
    .container { width: 100%; max-width: 1000px; padding: 40px 20px; display: flex; flex-direction: column; align-items: center; }
    header { width: 100%; display: flex; justify-content: space-between; align-items: center; margin-bottom: 30px; }
    .brand { font-size: 20px; font-weight: 800; color: var(--blue); }
    .time-badge { font-size: 13px; font-weight: 700; background: #fff; padding: 8px 18px; border-radius: 99px; border: 1px solid rgba(0,0,0,0.06); }
    h1 { font-size: clamp(28px, 5vw, 48px); font-weight: 800; letter-spacing: -1.5px; text-align: center; margin: 0 0 8px 0; }
    .subtext { font-size: 15px; font-weight: 600; color: var(--muted); margin: 0 0 30px 0; }
    .card { width: 100%; background: #fff; border-radius: 20px; border: 1px solid rgba(0,0,0,0.05); box-shadow: 0 20px 60px -30px rgba(37, 99, 235, 0.25); overflow: hidden; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); }
    .col { padding: 36px; border-right: 1px solid rgba(0,0,0,0.05); }
    .col:last-child { border-right: none; }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 800; letter-spacing: 2px; color: #9CA3AF; margin-bottom: 20px; }
    .big { font-size: clamp(24px, 3.5vw, 40px); font-weight: 800; line-height: 1; margin-bottom: 12px; }
    .row { display: flex; justify-content: space-between; align-items: center; padding: 8px 0; border-bottom: 1px solid rgba(0,0,0,0.04); font-size: 14px; font-weight: 600; }
    .row:last-child { border-bottom: none; }
    .pill { padding: 4px 12px; border-radius: 10px; font-size: 11px; font-weight: 800; }
    .ok { background: rgba(37, 99, 235, 0.08); color: var(--blue); }
    .err { background: rgba(239, 68, 68, 0.08); color: #EF4444; }
    .footer-req { background: rgba(17, 24, 39, 0.03); padding: 16px 36px; display: flex; justify-content: space-between; font-family: monospace; font-size: 13px; font-weight: 700; border-top: 1px solid rgba(0,0,0,0.05); }
    @media (max-width: 800px) { .grid { grid-template-columns: 1fr; } .col { border-right: none; border-bottom: 1px solid rgba(0,0,0,0.05); } .footer-req { flex-direction: column; gap: 8px; } }
  </style>
</head>
<body>
  <div class="container">
    <header>
      <div class="brand">Nexora Technologies</div>
      <div class="time-badge"><span id="time-display"></span></div>
    </header>
    <h1 id="headline">` + headline + `</h1>
    <p class="subtext">Real-time monitoring of API performance and dependencies.</p>
    <div class="card">
      <div class="grid">
        <div class="col">
          <div class="label">Traffic &amp; Quality</div>
          <div class="big" id="total-req">` + fmt.Sprint(health.Traffic.TotalRequests) + `</div>
          <div class="row"><span>Successful</span><span id="success-count" style="color:var(--blue)">` + fmt.Sprint(health.Traffic.SuccessCount) + `</span></div>
          <div class="row"><span>Failed</span><span id="failed-count" style="color:#EF4444">` + fmt.Sprint(health.Traffic.FailedCount) + `</span></div>
          <div class="row"><span>Success Rate</span><span id="success-rate">` + health.Traffic.SuccessRate + `%</span></div>
          <div class="row"><span>Avg Latency</span><span id="avg-time">` + avgTime + `ms</span></div>
        </div>
        <div class="col">
          <div class="label">Resources</div>
          <div class="big" id="uptime">--h --m --s</div>
          <div class="row"><span>Heap Used</span><span id="mem-heap">` + fmt.Sprint(health.Runtime.Memory.HeapUsed) + ` MB</span></div>
          <div class="row"><span>Memory (RSS)</span><span>` + fmt.Sprint(health.Runtime.Memory.RSS) + ` MB</span></div>
          <div class="row"><span>Platform</span><span style="font-size:11px">` + health.Runtime.Platform + `</span></div>
          <div class="row"><span>Go</span><span style="font-size:11px">` + health.Runtime.GoVersion + `</span></div>
        </div>
        <div class="col">
          <div class="label">Connectivity</div>
          <div class="row"><span>Database</span><span id="pill-database" class="pill ok"><span id="ping-database">-- ms</span></span></div>
          <div class="row"><span>Redis Cache</span><span id="pill-redis" class="pill ok"><span id="ping-redis">-- ms</span></span></div>
          <div class="row"><span>Frontend</span><span id="pill-frontend" class="pill ok"><span id="ping-frontend">-- ms</span></span></div>
          <div class="row"><span>Payment Gateway</span><span id="pill-gateway" class="pill ok"><span id="ping-gateway">-- ms</span></span></div>
        </div>
      </div>
      <div class="footer-req">
        <div><span style="opacity:0.5; margin-right:10px;">LAST INBOUND</span> <span id="req-method" style="font-weight:800">` + lastReqMethod + `</span></div>
        <div id="req-path">` + lastReqPath + `</div>
        <div id="req-ip" style="opacity:0.6">` + lastReqIP + `</div>
      </div>
    </div>
  </div>
  <script>
    const fmtUp = (s) => { const d = Math.floor(s / 86400); const h = Math.floor((s % 86400) / 3600); const m = Math.floor((s % 3600) / 60); const sec = Math.floor(s % 60); return d > 0 ? d + 'd ' + h + 'h ' + m + 'm' : h + 'h ' + m + 'm ' + sec + 's'; };
    const updateUI = (d) => {
      document.getElementById('time-display').innerText = new Date().toLocaleTimeString();
      document.getElementById('total-req').innerText = d.traffic.totalRequests;
      document.getElementById('success-count').innerText = d.traffic.successCount;
      document.getElementById('failed-count').innerText = d.traffic.failedCount;
      document.getElementById('success-rate').innerText = d.traffic.successRate + '%';
      document.getElementById('avg-time').innerText = d.traffic.avgResponseTime + 'ms';
      document.getElementById('uptime').innerText = fmtUp(d.runtime.uptimeSeconds);
      document.getElementById('mem-heap').innerText = d.runtime.memory.heapUsed + ' MB';
      if (d.traffic.lastRequest) { document.getElementById('req-method').innerText = d.traffic.lastRequest.method; document.getElementById('req-path').innerText = d.traffic.lastRequest.path; document.getElementById('req-ip').innerText = d.traffic.lastRequest.ip; }
      const setP = (id, s, p) => { const pill = document.getElementById('pill-' + id); const isOk = s === 'connected' || s === 'reachable'; pill.className = 'pill ' + (isOk ? 'ok' : 'err'); document.getElementById('ping-' + id).innerText = (p != null ? p : '?') + ' ms'; };
      for (const dep of ['database', 'redis', 'frontend', 'gateway']) { setP(dep, d.dependencies[dep].status, d.dependencies[dep].pingMs); }
      const hl = document.getElementById('headline');
      hl.innerText = d.status === 'ok' ? 'All Systems Operational' : 'System Issues Detected';
      hl.style.color = d.status === 'ok' ? '' : '#EF4444';
    };
    async function tick() { try { const r = await fetch('/health/json'); const d = await r.json(); updateUI(d); } catch (e) {} }
    setTimeout(() => { const data = JSON.parse(` + "`" + jsonStr + "`" + `); updateUI(data); }, 100);
    setInterval(tick, 15000);
  </script>
</body>
</html>`
}
