package http

import "html/template"

// Page names understood by the HTML renderer.
const (
	tmplDashboard = "dashboard.html"
	tmplOrders    = "orders.html"
	tmplLogin     = "login.html"
)

type navItem struct {
	Label  string
	Path   string
	Active bool
}

type layoutData struct {
	Title   string
	Nav     []navItem
	Refresh int
	Content any
}

func sideMenu(current string) []navItem {
	items := []navItem{
		{Label: "dashboard", Path: "/"},
		{Label: "Orders", Path: "/orders"},
		{Label: "Logout", Path: "/log-in"},
	}
	for i := range items {
		items[i].Active = items[i].Path == current
	}
	return items
}

func newTemplates() *template.Template {
	t := template.Must(template.New("layout").Funcs(template.FuncMap{
		"prev": func(n int) int { return n - 1 },
		"next": func(n int) int { return n + 1 },
	}).Parse(layoutTmpl))
	template.Must(t.New(tmplDashboard).Parse(`{{template "head" .}}<h1>Dashboard</h1><p>Select <a href="/orders">Orders</a> to manage deliveries.</p>{{template "foot" .}}`))
	template.Must(t.New(tmplLogin).Parse(`{{template "head" .}}<h1>Log in</h1><p>Your orders view session has ended. Sign in through the store's admin portal, then return to the <a href="/">dashboard</a>.</p>{{template "foot" .}}`))
	template.Must(t.New(tmplOrders).Parse(ordersTmpl))
	return t
}

const layoutTmpl = `{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{if .Refresh}}<meta http-equiv="refresh" content="{{.Refresh}}">{{end}}
<style>
body{margin:0;font-family:Inter,sans-serif;display:flex}
.side-menu{width:220px;min-height:100vh;background:#111827;padding:16px;position:fixed}
.side-menu a{display:block;color:#d1d5db;padding:8px;text-decoration:none}
.side-menu a.active{background:#374151;color:#fff;border-radius:4px}
main{margin-left:252px;padding:16px;flex:1}
table{border-collapse:collapse;width:100%;background:#fff}
th{font-weight:bolder;text-align:left}
th,td{padding:6px;border-bottom:1px solid #e5e7eb;vertical-align:top}
.banner{font-size:2.25rem;font-weight:700;margin:20px 0}
.toast{padding:8px 12px;border-radius:4px;margin-bottom:12px}
.toast.success{background:#dcfce7}.toast.error{background:#fee2e2}
.images{display:flex;flex-direction:row;gap:2px}
.images img{width:200px;height:350px;margin-right:5px;cursor:pointer}
.pager{color:#6B7280;display:flex;gap:12px;align-items:center;padding:8px}
</style>
</head>
<body>
<nav class="side-menu"><ul>{{range .Nav}}<li><a href="{{.Path}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a></li>{{end}}</ul></nav>
<main>{{end}}
{{define "foot"}}</main>
</body>
</html>{{end}}`

const ordersTmpl = `{{template "head" .}}{{with .Content}}
{{with .Toast}}<div class="toast {{.Kind}}" role="status">{{.Message}}</div>{{end}}
{{if .IsLoading}}<div class="banner">Loading...</div>{{end}}
{{if .IsError}}<div class="banner">{{.Error}}</div>{{end}}
<form method="post" action="/orders/refetch"><button type="submit">Refresh</button></form>
<table>
<thead><tr><th>Tracking IDs</th><th>Full Name</th><th>Email</th><th>Actions</th></tr></thead>
<tbody>
{{range .Table.Rows}}
<tr>
<td>{{.TrackingID}}</td><td>{{.CustomerName}}</td><td>{{.CustomerEmail}}</td>
<td><form method="post" action="/orders/{{.OrderID}}/toggle"><button type="submit">{{.ToggleLabel}}</button></form></td>
</tr>
{{if .Expanded}}
<tr><td colspan="4">
<table>
<thead><tr><th>Order ID</th><th>Delivery Status</th><th>Product Name</th><th>Unit Amount</th><th>Quantity</th><th>Order Status (Stripe)</th><th>Images</th><th>Customer Details</th></tr></thead>
<tbody>
{{range .Details}}
<tr>
<td>{{.OrderID}}</td>
<td>
<label>{{.CurrentStatus}}</label>
<form method="post" action="/orders/pending-status">
<input type="hidden" name="orderId" value="{{.OrderID}}">
<select name="status" onchange="this.form.submit()">
<option value="" disabled{{if not .SelectedStatus}} selected{{end}}></option>
{{range .StatusOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
</select>
<noscript><button type="submit">Select</button></noscript>
</form>
<form method="post" action="/orders/{{.OrderID}}/update-status"><button type="submit">Update Status</button></form>
</td>
<td>{{.ProductName}}</td>
<td>{{.UnitAmount}}</td>
<td>{{.Quantity}}</td>
<td>{{.PaymentStatus}}</td>
<td class="images">{{range .Images}}<a href="{{.URL}}" target="_blank" rel="noopener noreferrer" download="{{.DownloadName}}"><img src="{{.URL}}" alt="{{.Alt}}"></a>{{end}}</td>
<td>{{with .Customer}}Name: {{.Name}}<br>Email: {{.Email}}<br>Address: {{.Line1}}<br>City: {{.City}}<br>State: {{.State}}<br>Postal Code: {{.PostalCode}}<br>Country: {{.Country}}<br>{{end}}</td>
</tr>
{{end}}
</tbody>
</table>
</td></tr>
{{end}}
{{end}}
</tbody>
</table>
{{with .Table.Pagination}}
<div class="pager">
<form method="post" action="/orders/page-size">Rows per page:
<select name="size" onchange="this.form.submit()">{{$size := .PageSize}}{{range .PageSizes}}<option value="{{.}}"{{if eq . $size}} selected{{end}}>{{.}}</option>{{end}}</select>
<noscript><button type="submit">Apply</button></noscript>
</form>
<span>{{.Label}}</span>
<form method="post" action="/orders/page"><input type="hidden" name="page" value="{{prev .Page}}"><button type="submit"{{if not .HasPrev}} disabled{{end}}>&lsaquo;</button></form>
<form method="post" action="/orders/page"><input type="hidden" name="page" value="{{next .Page}}"><button type="submit"{{if not .HasNext}} disabled{{end}}>&rsaquo;</button></form>
</div>
{{end}}
{{end}}{{template "foot" .}}`
