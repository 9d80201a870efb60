package email

// Email templates using HTML

const interviewSummaryTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background: linear-gradient(135deg, #2563eb, #1d4ed8);
            color: white;
            padding: 30px;
            text-align: center;
            border-radius: 10px 10px 0 0;
        }
        .header h1 {
            margin: 0;
            font-size: 24px;
        }
        .content {
            background: #ffffff;
            padding: 30px;
            border: 1px solid #e5e7eb;
            border-top: none;
        }
        .footer {
            background: #f9fafb;
            padding: 20px;
            text-align: center;
            font-size: 12px;
            color: #6b7280;
            border: 1px solid #e5e7eb;
            border-top: none;
            border-radius: 0 0 10px 10px;
        }
        .info-box {
            background: #f3f4f6;
            padding: 20px;
            border-radius: 8px;
            margin: 20px 0;
        }
        .info-row {
            display: flex;
            justify-content: space-between;
            padding: 8px 0;
            border-bottom: 1px solid #e5e7eb;
        }
        .info-row:last-child {
            border-bottom: none;
        }
        .info-label {
            color: #6b7280;
        }
        .info-value {
            font-weight: 600;
        }
        .transcript {
            background: #f9fafb;
            border: 1px solid #e5e7eb;
            border-radius: 8px;
            padding: 15px;
            margin: 20px 0;
        }
        .turn-user {
            margin: 10px 0;
            color: #1f2937;
        }
        .turn-assistant {
            margin: 10px 0;
            color: #2563eb;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Tukma</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">AI Interview Platform</p>
    </div>
    <div class="content">
        <h2>Your Interview Summary</h2>
        <p>Your mock interview session has ended. Here is a summary of the session.</p>
        <div class="info-box">
            <div class="info-row">
                <span class="info-label">Company</span>
                <span class="info-value">{{.Company}}</span>
            </div>
            <div class="info-row">
                <span class="info-label">Role</span>
                <span class="info-value">{{.Role}}</span>
            </div>
            <div class="info-row">
                <span class="info-label">Turns</span>
                <span class="info-value">{{.TurnCount}}</span>
            </div>
            <div class="info-row">
                <span class="info-label">Duration</span>
                <span class="info-value">{{.Duration}}</span>
            </div>
        </div>
        {{if .Turns}}
        <h3>Transcript</h3>
        <div class="transcript">
            {{range .Turns}}
            <p class="turn-{{.Role}}"><strong>{{.Speaker}}:</strong> {{.Content}}</p>
            {{end}}
        </div>
        {{end}}
        <p>The full transcript is attached to this email.</p>
    </div>
    <div class="footer">
        <p>&copy; 2026 Tukma. All rights reserved.</p>
        <p>This is an automated message. Please do not reply to this email.</p>
    </div>
</body>
</html>
`
